package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const defaultProbeTimeout = 30 * time.Second

type probeReport struct {
	Health     json.RawMessage `json:"health"`
	Namespaces json.RawMessage `json:"namespaces,omitempty"`
	Query      json.RawMessage `json:"query"`
	Status     int             `json:"queryStatus"`
}

func probeCommand(c *cli.Context) error {
	base := strings.TrimRight(c.String("url"), "/")
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	client := &http.Client{}
	var report probeReport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, status, err := probeGet(gctx, client, base+"/")
		if err != nil {
			return fmt.Errorf("health check: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("health check: unexpected status %d: %s", status, body)
		}
		report.Health = body
		return nil
	})
	g.Go(func() error {
		body, status, err := probeGet(gctx, client, base+"/namespaces")
		if err != nil {
			return fmt.Errorf("list namespaces: %w", err)
		}
		if status == http.StatusOK {
			report.Namespaces = body
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	payload := probeQuery(c.String("text"), c.Int("random-dim"), c.String("namespace"), c.Int("top-k"))
	body, status, err := probePost(ctx, client, base+"/query", payload)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	report.Query = body
	report.Status = status

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}
	if status != http.StatusOK {
		return cli.Exit(fmt.Sprintf("query returned status %d", status), 1)
	}
	return nil
}

func probeQuery(text string, dim int, namespace string, topK int) map[string]any {
	q := map[string]any{"topK": topK}
	if namespace != "" {
		q["namespace"] = namespace
	}
	if dim > 0 {
		vec := make([]float64, dim)
		for i := range vec {
			vec[i] = rand.Float64()
		}
		q["vector"] = vec
		return q
	}
	q["query"] = text
	return q
}

func probeGet(ctx context.Context, client *http.Client, url string) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	return probeDo(client, req)
}

func probePost(ctx context.Context, client *http.Client, url string, payload any) (json.RawMessage, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return probeDo(client, req)
}

func probeDo(client *http.Client, req *http.Request) (json.RawMessage, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if !json.Valid(body) {
		return nil, resp.StatusCode, fmt.Errorf("response is not JSON: %q", body)
	}
	return body, resp.StatusCode, nil
}

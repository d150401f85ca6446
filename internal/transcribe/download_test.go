package transcribe

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"voxtext/internal/domain"
)

// scriptedDoer returns queued responses or errors in order.
type scriptedDoer struct {
	calls     int
	responses []func() (*http.Response, error)
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	if d.calls >= len(d.responses) {
		return nil, errors.New("unexpected request")
	}
	next := d.responses[d.calls]
	d.calls++
	return next()
}

func okResponse(body string) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func certFailure() func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return nil, &url.Error{
			Op:  "Get",
			URL: "https://huggingface.co",
			Err: &tls.CertificateVerificationError{Err: errors.New("x509: certificate signed by unknown authority")},
		}
	}
}

// TestProviderLoadUsesLocalModel checks no download happens when the model
// file already exists.
func TestProviderLoadUsesLocalModel(t *testing.T) {
	modelDir := t.TempDir()
	model, _ := domain.ModelByTier(domain.ModelTierBase)
	if err := os.WriteFile(filepath.Join(modelDir, model.FileName), []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	client := &scriptedDoer{}
	provider := NewWhisperProviderForTests(modelDir, client, client)

	if _, err := provider.Load(context.Background(), domain.ModelTierBase); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("http calls = %d, want 0", client.calls)
	}
}

// TestProviderLocalPath checks on-disk model detection for the catalog.
func TestProviderLocalPath(t *testing.T) {
	modelDir := t.TempDir()
	model, _ := domain.ModelByTier(domain.ModelTierBase)
	if err := os.WriteFile(filepath.Join(modelDir, model.FileName), []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	client := &scriptedDoer{}
	provider := NewWhisperProviderForTests(modelDir, client, client)

	path, ok := provider.LocalPath(domain.ModelTierBase)
	if !ok || path != filepath.Join(modelDir, model.FileName) {
		t.Fatalf("LocalPath() = %q, %v", path, ok)
	}
	if _, ok := provider.LocalPath(domain.ModelTierTiny); ok {
		t.Fatal("LocalPath() reported a model that is not on disk")
	}
}

// TestProviderLoadDownloadsMissingModel checks the first-use download path.
func TestProviderLoadDownloadsMissingModel(t *testing.T) {
	modelDir := filepath.Join(t.TempDir(), "models")
	client := &scriptedDoer{responses: []func() (*http.Response, error){okResponse("ggml bytes")}}
	insecure := &scriptedDoer{}
	provider := NewWhisperProviderForTests(modelDir, client, insecure)

	if _, err := provider.Load(context.Background(), domain.ModelTierTiny); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	model, _ := domain.ModelByTier(domain.ModelTierTiny)
	content, err := os.ReadFile(filepath.Join(modelDir, model.FileName))
	if err != nil {
		t.Fatalf("model file missing: %v", err)
	}
	if string(content) != "ggml bytes" {
		t.Fatalf("model content = %q", content)
	}
	if insecure.calls != 0 {
		t.Fatalf("insecure calls = %d, want 0", insecure.calls)
	}
}

// TestProviderTrustChainFailureRetriesOnce checks a certificate failure
// triggers exactly one retry with verification relaxed.
func TestProviderTrustChainFailureRetriesOnce(t *testing.T) {
	modelDir := filepath.Join(t.TempDir(), "models")
	client := &scriptedDoer{responses: []func() (*http.Response, error){certFailure()}}
	insecure := &scriptedDoer{responses: []func() (*http.Response, error){okResponse("ggml bytes")}}
	provider := NewWhisperProviderForTests(modelDir, client, insecure)

	if _, err := provider.Load(context.Background(), domain.ModelTierBase); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if client.calls != 1 || insecure.calls != 1 {
		t.Fatalf("calls = %d verified, %d relaxed, want 1 each", client.calls, insecure.calls)
	}
}

// TestProviderSecondTrustFailureIsFatal checks there is no second retry.
func TestProviderSecondTrustFailureIsFatal(t *testing.T) {
	modelDir := filepath.Join(t.TempDir(), "models")
	client := &scriptedDoer{responses: []func() (*http.Response, error){certFailure()}}
	insecure := &scriptedDoer{responses: []func() (*http.Response, error){certFailure()}}
	provider := NewWhisperProviderForTests(modelDir, client, insecure)

	_, err := provider.Load(context.Background(), domain.ModelTierBase)
	if err == nil {
		t.Fatal("expected fatal error after retry")
	}
	if client.calls != 1 || insecure.calls != 1 {
		t.Fatalf("calls = %d verified, %d relaxed, want 1 each", client.calls, insecure.calls)
	}
}

// TestProviderNonTrustFailureDoesNotRetry checks only trust-chain failures
// get the relaxed retry.
func TestProviderNonTrustFailureDoesNotRetry(t *testing.T) {
	modelDir := filepath.Join(t.TempDir(), "models")
	client := &scriptedDoer{responses: []func() (*http.Response, error){
		func() (*http.Response, error) { return nil, errors.New("connection refused") },
	}}
	insecure := &scriptedDoer{}
	provider := NewWhisperProviderForTests(modelDir, client, insecure)

	_, err := provider.Load(context.Background(), domain.ModelTierBase)
	if err == nil {
		t.Fatal("expected error")
	}
	if insecure.calls != 0 {
		t.Fatalf("insecure calls = %d, want 0", insecure.calls)
	}
}

// TestProviderRejectsUnknownTier checks tier validation.
func TestProviderRejectsUnknownTier(t *testing.T) {
	provider := NewWhisperProviderForTests(t.TempDir(), &scriptedDoer{}, &scriptedDoer{})
	if _, err := provider.Load(context.Background(), domain.ModelTier("enormous")); err == nil {
		t.Fatal("expected unknown tier error")
	}
}

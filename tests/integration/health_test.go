package integration

import (
	"testing"
)

// TestHealthLive verifies the liveness endpoint responds with 200.
func TestHealthLive(t *testing.T) {
	skipIfNotRunning(t)

	status, data := httpGet(t, baseURL()+"/health/live")
	requireStatus(t, status, 200)

	if extractField(data, "status") == nil {
		t.Fatal("expected status field in liveness response")
	}
}

// TestHealthReady verifies the readiness endpoint responds. A degraded
// dependency (Kafka down) still reports 200; only a critical failure
// (Postgres down) returns 503.
func TestHealthReady(t *testing.T) {
	skipIfNotRunning(t)

	status, data := httpGet(t, baseURL()+"/health/ready")
	if status != 200 && status != 503 {
		t.Fatalf("expected status 200 or 503 from readiness, got %d; body: %v", status, data)
	}
}

// TestRootPing verifies the root endpoint identifies the service.
func TestRootPing(t *testing.T) {
	skipIfNotRunning(t)

	status, data := httpGet(t, baseURL()+"/")
	requireStatus(t, status, 200)

	service := extractString(t, data, "data.service")
	if service != "royal-shades-autos-backend" {
		t.Fatalf("unexpected service identifier: %q", service)
	}
}

package resdeck

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resdeck/resdeck/permission"
)

func TestMetricsCountRefreshRecovery(t *testing.T) {
	env := newTestEnv(t)
	env.seedSession(permission.RoleStaff)

	env.mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access": "T2"})
	})
	env.mux.HandleFunc("/resources/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := env.client.Resources().List(context.Background(), "")
	require.NoError(t, err)

	snap := env.client.MetricsSnapshot()
	require.Equal(t, uint64(1), snap[MetricRequests])
	require.Equal(t, uint64(1), snap[MetricUnauthorized])
	require.Equal(t, uint64(1), snap[MetricRefreshSuccess])
	require.Equal(t, uint64(1), snap[MetricRetries])
	require.Zero(t, snap[MetricRefreshFailure])
	require.Zero(t, snap[MetricReauthRequired])
}

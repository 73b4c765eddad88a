package http

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/clinicore/clinicore/pkg/httpx"
)

// serviceName identifies this service in health payloads.
const serviceName = "clinicore-auth"

// LivezHandler godoc
//
//	@Summary		Liveness Check Endpoint
//	@Description	Liveness probe reporting that the process is up, with service name, uptime and build version
//	@Description	Always returns 200 OK while the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, service, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Service: serviceName,
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

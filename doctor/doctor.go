// Package doctor diagnoses the Google Cloud side of a session: gcloud
// availability, both credential stores, the active project, and Vertex API
// enablement. It never repairs anything; it only reports.
package doctor

import (
	"context"
	"fmt"

	"github.com/jamygolden/claude-vertex/config"
	"github.com/jamygolden/claude-vertex/gcloud"
	"github.com/jamygolden/claude-vertex/resolve"
	"github.com/jamygolden/claude-vertex/ui"
	"github.com/jamygolden/claude-vertex/util"
)

// tokenInfoURL is Google's OAuth2 token introspection endpoint. Tests point
// it at a local server.
var tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Seams for tests.
var (
	gcloudAvailable = gcloud.Available
	accessToken     = gcloud.AccessToken
	adcAccessToken  = gcloud.ADCAccessToken
	serviceEnabled  = gcloud.ServiceEnabled
)

// tokenInfo is the subset of the tokeninfo response the doctor reports.
// Google returns the numeric fields as JSON strings.
type tokenInfo struct {
	ExpiresIn string `json:"expires_in"`
	Scope     string `json:"scope"`
	Email     string `json:"email"`
}

// Run executes every check in order and returns an error when any hard
// check fails. Soft findings (no project, API not yet enabled) are reported
// as warnings, since the bootstrap flow can still repair them.
func Run(ctx context.Context, cfg config.Config) error {
	failures := 0

	if err := gcloudAvailable(); err != nil {
		ui.Infof("%s gcloud CLI: %v", ui.FailTag(), err)
		return fmt.Errorf("gcloud is required; install the Google Cloud SDK")
	}
	ui.Infof("%s gcloud CLI found", ui.OKTag())

	token, err := accessToken(ctx)
	if err != nil {
		ui.Infof("%s user credentials: not logged in (%v)", ui.FailTag(), err)
		failures++
	} else {
		ui.Infof("%s user credentials present", ui.OKTag())
		if info, err := validateToken(token); err != nil {
			ui.Infof("%s token validation failed: %v", ui.FailTag(), err)
			failures++
		} else {
			ui.Infof("%s access token valid (expires in %ss, account %s)", ui.OKTag(), info.ExpiresIn, info.Email)
		}
	}

	if _, err := adcAccessToken(ctx); err != nil {
		ui.Infof("%s application default credentials missing; run `gcloud auth application-default login`", ui.FailTag())
		failures++
	} else {
		ui.Infof("%s application default credentials present", ui.OKTag())
	}

	projectID, _, err := resolve.Project(ctx, resolve.NonInteractiveSources(cfg))
	if err != nil {
		ui.Infof("%s no project resolved without prompting; the wrapper will ask interactively", ui.WarnTag())
	} else {
		ui.Infof("%s project: %s", ui.OKTag(), projectID)

		enabled, err := serviceEnabled(ctx, gcloud.VertexService, projectID)
		switch {
		case err != nil:
			ui.Infof("%s could not check %s: %v", ui.WarnTag(), gcloud.VertexService, err)
		case enabled:
			ui.Infof("%s %s enabled on %s", ui.OKTag(), gcloud.VertexService, projectID)
		default:
			ui.Infof("%s %s not enabled on %s; the first-login flow enables it, or run `gcloud services enable %s --project %s`",
				ui.WarnTag(), gcloud.VertexService, projectID, gcloud.VertexService, projectID)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	return nil
}

func validateToken(token string) (tokenInfo, error) {
	return util.HttpGetRecvJson[tokenInfo](tokenInfoURL, util.GetParams{
		QueryParams: map[string]string{"access_token": token},
	})
}

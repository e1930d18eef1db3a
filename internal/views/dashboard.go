// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

package views

import (
	"context"
	"sync"

	"github.com/tomtom215/movierex/internal/client"
	"github.com/tomtom215/movierex/internal/inflight"
	"github.com/tomtom215/movierex/internal/logging"
	"github.com/tomtom215/movierex/internal/render"
)

// Dashboard messages.
const (
	MsgInvalidUserID   = "Please enter a valid User ID"
	MsgDashboardFailed = "Failed to load dashboard data. Please check the User ID and try again."
)

// DashboardSnapshot is the analysis page of one user.
type DashboardSnapshot struct {
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	UserID  int                    `json:"user_id,omitempty"`
	Panel   *render.DashboardPanel `json:"panel,omitempty"`
}

// Dashboard controls the user analysis page. Entering a new user id while a
// previous one is still loading supersedes the earlier load.
type Dashboard struct {
	api  client.API
	ctrl *inflight.Controller
	opts Options

	mu      sync.Mutex
	status  Status
	message string
	userID  int
	panel   *render.DashboardPanel
}

// NewDashboard returns an idle Dashboard.
func NewDashboard(deps Deps) *Dashboard {
	return &Dashboard{
		api:    deps.API,
		ctrl:   deps.Controller,
		opts:   deps.Options.withDefaults(),
		status: StatusIdle,
	}
}

// Load shows the dashboard of userID.
func (v *Dashboard) Load(ctx context.Context, userID int) (DashboardSnapshot, error) {
	err := v.load(ctx, userID)
	return v.Snapshot(), err
}

func (v *Dashboard) load(ctx context.Context, userID int) error {
	tok := v.ctrl.Start(ctx, KeyDashboard)
	defer tok.Settle()

	if userID <= 0 {
		return tok.Apply(func() error {
			v.set(StatusFailed, MsgInvalidUserID, 0, nil)
			return nil
		})
	}

	d, err := v.api.Dashboard(tok.Context(), userID)
	if err != nil {
		if stop := interrupted(tok, err); stop != nil {
			logging.Ctx(ctx).Debug().Err(stop).Int("user_id", userID).Msg("dashboard load abandoned")
			return stop
		}
		logFailure(ctx, KeyDashboard, err)
		return tok.Apply(func() error {
			v.set(StatusFailed, MsgDashboardFailed, userID, nil)
			return nil
		})
	}

	panel := render.Dashboard(userID, d, v.opts.DashboardTop)
	return tok.Apply(func() error {
		v.set(StatusReady, "", userID, &panel)
		return nil
	})
}

func (v *Dashboard) set(status Status, message string, userID int, panel *render.DashboardPanel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
	v.message = message
	v.userID = userID
	v.panel = panel
}

// Snapshot returns the dashboard on screen.
func (v *Dashboard) Snapshot() DashboardSnapshot {
	pending := v.ctrl.Pending(KeyDashboard)

	v.mu.Lock()
	defer v.mu.Unlock()
	s := DashboardSnapshot{
		Status:  v.status,
		Message: v.message,
		UserID:  v.userID,
		Panel:   v.panel,
	}
	if pending {
		s.Status = StatusLoading
	}
	return s
}

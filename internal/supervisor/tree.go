// Cinefeed - Movie Discovery and Recommendation Backend
// Copyright 2026 The Cinefeed Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinefeed/cinefeed

// Package supervisor assembles the suture supervision tree. Two child
// supervisors hang off the root: "api" for the HTTP server and "jobs"
// for the periodic catalog refresh and similarity batch services. A
// crashing service is restarted by its supervisor without taking the
// rest of the process down.
package supervisor

import (
	"context"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/cinefeed/cinefeed/internal/logging"
)

// Tree is the root supervisor with its child layers.
type Tree struct {
	root *suture.Supervisor
	api  *suture.Supervisor
	jobs *suture.Supervisor
}

// newSupervisor creates a supervisor logging through zerolog.
func newSupervisor(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: (&sutureslog.Handler{Logger: logging.NewSlogLogger()}).MustHook(),
	})
}

// NewTree creates the cinefeed supervision tree.
func NewTree() *Tree {
	root := newSupervisor("cinefeed")
	api := newSupervisor("api")
	jobs := newSupervisor("jobs")

	root.Add(api)
	root.Add(jobs)

	return &Tree{root: root, api: api, jobs: jobs}
}

// AddAPI registers a service under the api layer.
func (t *Tree) AddAPI(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// AddJob registers a service under the jobs layer.
func (t *Tree) AddJob(svc suture.Service) suture.ServiceToken {
	return t.jobs.Add(svc)
}

// Serve runs the tree until the context is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomtom215/reviewlake/internal/models"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(buf.String(), "reviewlake") {
		t.Errorf("version output %q missing binary name", buf.String())
	}
}

func TestRootCommandHasPipelineSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	want := []string{"download", "load", "stats", "analyze", "backup", "cleanup", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRenderAggregates(t *testing.T) {
	var buf bytes.Buffer
	renderAggregates(&buf, map[string]models.CategoryAggregate{
		"Books": {Count: 3, AvgRating: 4.33, MinRating: 3, MaxRating: 5,
			UniqueReviewers: 3, UniqueProducts: 2},
	})

	got := buf.String()
	if !strings.Contains(got, "Books") || !strings.Contains(got, "4.33") {
		t.Errorf("aggregate table missing row data:\n%s", got)
	}
}

func TestRenderAggregatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderAggregates(&buf, nil)
	if !strings.Contains(buf.String(), "No category data") {
		t.Errorf("got %q, want empty-store notice", buf.String())
	}
}

func TestRenderTopProducts(t *testing.T) {
	var buf bytes.Buffer
	renderTopProducts(&buf, []models.ProductRank{
		{ProductID: "BOOK1", AvgRating: 4.5, ReviewCount: 2},
		{ProductID: "GAME1", AvgRating: 3.0, ReviewCount: 4},
	})

	got := buf.String()
	if !strings.Contains(got, "BOOK1") || !strings.Contains(got, "GAME1") {
		t.Errorf("ranking table missing products:\n%s", got)
	}
}

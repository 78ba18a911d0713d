// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/prospect-engine/internal/jobstore"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit [target]",
	Short: "Queue a research job",
	Long: `Submit creates a pending research job for a company or prospect and
stores it in the local job queue. The target may be a company name or a
website URL; URLs additionally unlock similarity search.

A worker (see "worker") picks the job up, or run it immediately with
"run <job-id>".`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("owner", "local", "owner identifier recorded on the job")
	submitCmd.Flags().StringSlice("agents", nil,
		"agent kinds to run (company_discovery, market_analysis, competitor_research, person_research); empty runs company discovery")
	submitCmd.Flags().String("person", "", "prospect name for person research")
	submitCmd.Flags().String("linkedin", "", "prospect LinkedIn profile URL")
	submitCmd.Flags().String("context", "", "additional free-text context for the agents")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")
	agents, _ := cmd.Flags().GetStringSlice("agents")
	person, _ := cmd.Flags().GetString("person")
	linkedin, _ := cmd.Flags().GetString("linkedin")
	extra, _ := cmd.Flags().GetString("context")

	if err := validateAgentKinds(agents); err != nil {
		return err
	}

	cfg := pipelineConfig()
	store, err := jobstore.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	job := &types.ResearchJob{
		ID:                uuid.NewString(),
		OwnerID:           owner,
		Target:            args[0],
		EnabledAgents:     agents,
		PersonName:        person,
		PersonLinkedIn:    linkedin,
		AdditionalContext: extra,
	}

	if err := store.Create(context.Background(), job); err != nil {
		return err
	}

	fmt.Printf("Submitted job %s for %q\n", job.ID, job.Target)
	return nil
}

func validateAgentKinds(agents []string) error {
	valid := map[string]bool{
		types.AgentCompanyDiscovery:   true,
		types.AgentMarketAnalysis:     true,
		types.AgentCompetitorResearch: true,
		types.AgentPersonResearch:     true,
	}
	var bad []string
	for _, a := range agents {
		if !valid[a] {
			bad = append(bad, a)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unknown agent kind(s): %s", strings.Join(bad, ", "))
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prospect-engine/internal/jobstore"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List research jobs",
	Long:  `Jobs lists queued and finished research jobs, newest first.`,
	RunE:  runJobs,
}

var showCmd = &cobra.Command{
	Use:   "show [job-id]",
	Short: "Show one research job",
	Long: `Show prints a job's report to stdout when it has completed, or its
current status otherwise. Use --yaml for the full job record.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	jobsCmd.Flags().String("owner", "", "filter by owner identifier")
	jobsCmd.Flags().Int("limit", 20, "maximum number of jobs to list (0 for all)")

	showCmd.Flags().Bool("yaml", false, "print the full job record as YAML")

	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(showCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := jobstore.NewStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	jobs, err := store.List(context.Background(), owner, limit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-10s  %-30s  %-7s  %s\n",
		"ID", "Status", "Target", "Sources", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, j := range jobs {
		target := j.Target
		if len(target) > 30 {
			target = target[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-10s  %-30s  %-7d  %s\n",
			j.ID, j.Status, target, j.TotalSources,
			j.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d jobs\n", len(jobs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := jobstore.NewStore(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	job, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	asYAML, _ := cmd.Flags().GetBool("yaml")
	if asYAML {
		out, err := yaml.Marshal(job)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	}

	switch {
	case job.Results != "":
		fmt.Println(job.Results)
	case job.ErrorMessage != "":
		fmt.Printf("Job %s %s: %s\n", job.ID, job.Status, job.ErrorMessage)
	default:
		fmt.Printf("Job %s is %s\n", job.ID, job.Status)
	}
	return nil
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskshare-api/internal/model"
)

func newTasksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage your tasks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireLogin()
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your tasks, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tasks, err := await(a.tasks.LoadTasks(cmd.Context()), &a.tasks.List)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tSTATUS\tEND\tTITLE")
				for _, t := range tasks {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Status, t.EndDate.Format("2006-01-02"), t.Title)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show the dashboard counters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				stats, err := await(a.tasks.LoadDashboard(cmd.Context()), &a.tasks.Dashboard)
				if err != nil {
					return err
				}
				return a.print(stats)
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "task id")
				if err != nil {
					return err
				}
				t, err := await(a.tasks.LoadTask(cmd.Context(), id), &a.tasks.Detail)
				if err != nil {
					return err
				}
				return a.print(t)
			},
		},
		newTaskAddCommand(a),
		newTaskUpdateCommand(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a finished task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "task id")
				if err != nil {
					return err
				}
				_, err = await(a.tasks.DeleteTask(cmd.Context(), id), &a.tasks.DeleteState)
				return err
			},
		},
	)
	return cmd
}

type taskFlags struct {
	title, description, start, end string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "task title")
	cmd.Flags().StringVar(&f.description, "description", "", "task description")
	cmd.Flags().StringVar(&f.start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "end date, YYYY-MM-DD")
}

func (f *taskFlags) apply(a *app) {
	a.tasks.SetTitle(f.title)
	a.tasks.SetDescription(f.description)
	a.tasks.SetStartDate(f.start)
	a.tasks.SetEndDate(f.end)
}

func newTaskAddCommand(a *app) *cobra.Command {
	var (
		f       taskFlags
		project int64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(a)
			var projectID *int64
			if project > 0 {
				projectID = &project
			}
			t, err := await(a.tasks.AddTask(cmd.Context(), projectID), &a.tasks.AddState)
			if err != nil {
				return err
			}
			return a.print(t)
		},
	}
	f.bind(cmd)
	cmd.Flags().Int64Var(&project, "project", 0, "project id to add the task to")
	return cmd
}

func newTaskUpdateCommand(a *app) *cobra.Command {
	var (
		f      taskFlags
		status string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a task's fields and status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task id")
			if err != nil {
				return err
			}
			f.apply(a)
			t, err := await(a.tasks.UpdateTask(cmd.Context(), id, model.TaskStatus(status)), &a.tasks.UpdateState)
			if err != nil {
				return err
			}
			return a.print(t)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&status, "status", "", "TODO, IN_PROGRESS, COMPLETED, EXPIRED or CANCELLED")
	return cmd
}

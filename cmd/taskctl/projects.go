package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProjectsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects and sharing",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireLogin()
		},
	}

	printProjects := func(done <-chan struct{}) error {
		projects, err := await(done, &a.projects.Projects)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tOWNER\tMEMBERS\tTASKS\tTITLE")
		for _, p := range projects {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", p.ID, p.OwnerID, len(p.SharedWith), len(p.Tasks), p.Title)
		}
		return tw.Flush()
	}

	printRequests := func(done <-chan struct{}) error {
		requests, err := await(done, &a.projects.Requests)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPROJECT\tFROM")
		for _, r := range requests {
			title, from := "", ""
			if r.Project != nil {
				title = r.Project.Title
			}
			if r.FromUser != nil {
				from = r.FromUser.Username
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, title, from)
		}
		return tw.Flush()
	}

	var title, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.projects.SetTitle(title)
			a.projects.SetDescription(description)
			return printProjects(a.projects.CreateProject(cmd.Context()))
		},
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			a.projects.SetTitle(title)
			a.projects.SetDescription(description)
			return printProjects(a.projects.UpdateProject(cmd.Context(), id))
		},
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVar(&title, "title", "", "project title")
		c.Flags().StringVar(&description, "description", "", "project description")
	}

	resolve := func(accept bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "request id")
			if err != nil {
				return err
			}
			return printRequests(a.projects.HandleShareRequest(cmd.Context(), id, accept))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List projects you own or are a member of",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printProjects(a.projects.LoadProjects(cmd.Context()))
			},
		},
		create,
		update,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a project you own",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "project id")
				if err != nil {
					return err
				}
				return printProjects(a.projects.DeleteProject(cmd.Context(), id))
			},
		},
		&cobra.Command{
			Use:   "share <project-id> <user-id>",
			Short: "Invite a user to a project",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				projectID, err := parseID(args[0], "project id")
				if err != nil {
					return err
				}
				userID, err := parseID(args[1], "user id")
				if err != nil {
					return err
				}
				return printRequests(a.projects.ShareProject(cmd.Context(), projectID, userID))
			},
		},
		&cobra.Command{
			Use:   "requests",
			Short: "List invitations waiting for you",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printRequests(a.projects.LoadShareRequests(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "accept <request-id>",
			Short: "Accept an invitation",
			Args:  cobra.ExactArgs(1),
			RunE:  resolve(true),
		},
		&cobra.Command{
			Use:   "decline <request-id>",
			Short: "Decline an invitation",
			Args:  cobra.ExactArgs(1),
			RunE:  resolve(false),
		},
		&cobra.Command{
			Use:   "remove-member <project-id> <user-id>",
			Short: "Remove a member from a project you own",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				projectID, err := parseID(args[0], "project id")
				if err != nil {
					return err
				}
				userID, err := parseID(args[1], "user id")
				if err != nil {
					return err
				}
				return printProjects(a.projects.RemoveMember(cmd.Context(), projectID, userID))
			},
		},
	)
	return cmd
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskshare-api/internal/client"
)

// app is built once per invocation in PersistentPreRunE.
type app struct {
	session  *client.FileSession
	api      *client.Client
	logger   *zap.Logger
	auth     *client.AuthModel
	profile  *client.ProfileModel
	tasks    *client.TaskModel
	projects *client.ProjectModel
	out      io.Writer
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TASKCTL")
	v.AutomaticEnv()

	a := &app{}
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Command line client for the task manager API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("server", "http://localhost:8080", "API base URL")
	flags.String("session", defaultSessionPath(), "file the login session is kept in")
	flags.Bool("verbose", false, "log requests to stderr")
	_ = v.BindPFlag("server", flags.Lookup("server"))
	_ = v.BindPFlag("session", flags.Lookup("session"))
	_ = v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(
		newLoginCommand(a),
		newSignupCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newProfileCommand(a),
		newTasksCommand(a),
		newProjectsCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	if v.GetBool("verbose") {
		a.logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	} else {
		a.logger = zap.NewNop()
	}

	a.session, err = client.LoadFileSession(v.GetString("session"))
	if err != nil {
		return err
	}
	a.api = client.NewClient(v.GetString("server"), a.session)
	a.auth = client.NewAuthModel(a.api, a.session, a.logger)
	a.profile = client.NewProfileModel(a.api, a.session, a.logger)
	a.tasks = client.NewTaskModel(a.api, a.logger)
	a.projects = client.NewProjectModel(a.api, a.logger)
	a.out = cmd.OutOrStdout()
	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "taskctl", "session.yaml")
}

// await blocks until done closes and turns an Error state into an error.
func await[T any](done <-chan struct{}, h *client.Holder[T]) (T, error) {
	<-done
	state := h.State()
	if state.Phase == client.Error {
		var zero T
		return zero, errors.New(state.Message)
	}
	return state.Data, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) requireLogin() error {
	if a.session.Token() == "" {
		return errors.New("not logged in, run taskctl login first")
	}
	return nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/questify/questify/internal/client"
	"github.com/questify/questify/internal/model"
)

// session is what login leaves behind for later commands.
type session struct {
	Server string `yaml:"server"`
	Email  string `yaml:"email,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

func sessionPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("session"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "questify", "session.yaml"), nil
}

func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	s := &session{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return s, nil
}

func (s *session) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// cliEnv is the client and session a command runs with.
type cliEnv struct {
	client      *client.Client
	session     *session
	sessionPath string
}

// newEnv builds a client for --server. The saved token is only used when it
// was issued by that same server.
func newEnv(cmd *cobra.Command) (*cliEnv, error) {
	server, _ := cmd.Flags().GetString("server")
	server = strings.TrimRight(server, "/")

	path, err := sessionPath(cmd)
	if err != nil {
		return nil, err
	}
	s, err := loadSession(path)
	if err != nil {
		return nil, err
	}

	token := ""
	if s.Server == server {
		token = s.Token
	}
	return &cliEnv{
		client:      client.New(server, token),
		session:     s,
		sessionPath: path,
	}, nil
}

// remember stores the client's current token for the next command.
func (e *cliEnv) remember(email string) error {
	e.session.Server = e.client.BaseURL()
	e.session.Email = email
	e.session.Token = e.client.Token()
	return e.session.save(e.sessionPath)
}

// readPassword returns the --password flag or the first line of stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// hint turns a missing session into an actionable message.
func hint(err error) error {
	if errors.Is(err, model.ErrAuthRequired) {
		return errors.New("not logged in (run \"questify login\" first)")
	}
	return err
}

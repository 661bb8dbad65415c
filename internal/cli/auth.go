package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/session"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in to the Hero Records API",
		Long:  "Exchange an email and password for a bearer token and store it for later commands.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				email = args[0]
			}
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var err error
			if email == "" {
				if email, err = prompt(in, out, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret(cmd, in, "Password: "); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			token, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %s", apiclient.ErrorMessage(err, "invalid email or password"))
			}
			if err := sessions.Login(token); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}

			st := sessions.Current()
			fmt.Fprintf(out, "Logged in as %s (role: %s)\n", email, roleOrDash(st.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessions.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in role and check the credential against the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.Protected); err != nil {
				return err
			}
			msg, err := client.TestAuth(cmd.Context())
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Role:   %s\n", roleOrDash(sessions.Current().Role))
			if msg != "" {
				fmt.Fprintf(out, "Server: %s\n", msg)
			}
			return nil
		},
	}
}

// prompt writes label and reads one trimmed line.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a password without echo when stdin is a terminal and
// falls back to prompt otherwise.
func promptSecret(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	out := cmd.OutOrStdout()
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(in, out, label)
	}
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func roleOrDash(role string) string {
	if role == "" {
		return "-"
	}
	return role
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/columns"
	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/table"
	"github.com/me/heroconsole/pkg/model"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console accounts (Admin only)",
	}
	cmd.AddCommand(newUsersListCmd(), newUsersCreateCmd(), newUsersDeleteCmd())
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var (
		email    string
		role     string
		page     int
		pageSize int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.AdminOnly); err != nil {
				return err
			}
			format, err := parseOutput(output)
			if err != nil {
				return err
			}

			f := model.UserFilter{Email: strings.TrimSpace(email)}
			if role != "" {
				r, ok := model.ParseUserRole(role)
				if !ok {
					return fmt.Errorf("--role: unknown role %q (want user or admin)", role)
				}
				f.Role = &r
			}

			fetch := func(ctx context.Context, page, size int) (model.Page[model.User], error) {
				return client.UsersByFilter(ctx, f, model.PageRequest{PageNumber: page, PageSize: size})
			}
			t := table.New(fetch, columns.Users, pageSize)
			if err := t.Open(cmd.Context(), page); err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			return writePage(cmd, format, t, "No users found.")
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Filter by email")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (user, admin)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", model.DefaultPageSize, "Users per page")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.AdminOnly); err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			req := model.CreateUserRequest{Email: strings.TrimSpace(email)}
			if r, ok := model.ParseUserRole(role); ok {
				req.Role = r
			}

			var err error
			confirm := password
			if password == "" {
				if password, err = promptSecret(cmd, in, "Password: "); err != nil {
					return err
				}
				if confirm, err = promptSecret(cmd, in, "Confirm password: "); err != nil {
					return err
				}
			}
			req.Password = password

			if err := req.Validate(confirm); err != nil {
				return err
			}
			if err := client.CreateUser(cmd.Context(), req); err != nil {
				return fmt.Errorf("create user: %s", apiclient.ErrorMessage(err, err.Error()))
			}
			fmt.Fprintf(out, "User %s created (role: %s)\n", req.Email, req.Role.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted twice if omitted)")
	cmd.Flags().StringVar(&role, "role", "user", "Account role (user, admin)")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.AdminOnly); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			out := cmd.OutOrStdout()

			if !yes {
				answer, err := prompt(bufio.NewReader(cmd.InOrStdin()), out, fmt.Sprintf("Delete user %d? [y/N] ", id))
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			if err := client.DeleteUser(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete user: %s", apiclient.ErrorMessage(err, err.Error()))
			}
			fmt.Fprintf(out, "User %d deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

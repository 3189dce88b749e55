package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gin-gonic/gin/binding"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/api/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  "Manage user accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Add a new user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email := args[0], args[1]

		// Prompt for password
		prompter := newPasswordPrompter(cmd)
		password, err := prompter.prompt("Enter password: ")
		if err != nil {
			return err
		}
		confirmPassword, err := prompter.prompt("Confirm password: ")
		if err != nil {
			return err
		}

		// Same rules as the registration endpoint
		if err := validation.Register(); err != nil {
			return err
		}
		req := dto.RegisterRequest{
			Username:        username,
			Email:           email,
			Password:        password,
			ConfirmPassword: confirmPassword,
		}
		if err := binding.Validator.ValidateStruct(req); err != nil {
			return formatValidationError(err)
		}

		services, err := initServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		user, err := services.AuthService.Register(cmd.Context(), username, email, password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User '%s' <%s> created with id %d\n", user.Username, user.Email, user.ID)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer services.Close()

		users, err := services.AuthService.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No users found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREATED AT")
		for _, user := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				user.ID,
				user.Username,
				user.Email,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

// passwordPrompter reads passwords without echo from a terminal, or as plain
// lines when stdin is piped.
type passwordPrompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPasswordPrompter(cmd *cobra.Command) *passwordPrompter {
	return &passwordPrompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *passwordPrompter) prompt(label string) (string, error) {
	out := p.cmd.OutOrStdout()
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, label)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func formatValidationError(err error) error {
	errs := validation.Errors(err)
	var parts []string
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(errs[field], ", ")))
	}
	return fmt.Errorf("invalid user: %s", strings.Join(parts, "; "))
}

func init() {
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

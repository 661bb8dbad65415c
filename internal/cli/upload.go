package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/upload"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Import a CSV export of posts (Admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.AdminOnly); err != nil {
				return err
			}
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			name := filepath.Base(path)
			if err := upload.CheckCSV(name, f); err != nil {
				switch {
				case errors.Is(err, upload.ErrNotCSV):
					return fmt.Errorf("%s: only CSV files can be uploaded", name)
				case errors.Is(err, upload.ErrEmpty):
					return fmt.Errorf("%s: the file is empty", name)
				}
				return err
			}

			res, err := client.UploadCSV(cmd.Context(), name, f)
			if err != nil {
				return fmt.Errorf("upload: %s", apiclient.ErrorMessage(err, err.Error()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %s\n", res.Imported, name)
			return nil
		},
	}
}

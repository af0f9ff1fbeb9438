package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var RevisionsCmd = Revisions{
	command: command{
		env:   DEFAULT_ENV,
		debug: false,
	},
}

// Revisions lists the latest Google Drive revision of each configured workbook.
type Revisions struct {
	command
}

type revision struct {
	revision string
	modified time.Time
}

func (cmd *Revisions) Name() string {
	return "revisions"
}

func (cmd *Revisions) Description() string {
	return "Lists the latest revision of each configured workbook"
}

func (cmd *Revisions) Usage() string {
	return "[--env <file>]"
}

func (cmd *Revisions) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] revisions [--env <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Lists the latest Google Drive revision and modification time of each configured workbook.")
	fmt.Println("  The credentials require (at least) the Drive metadata read-only scope.")
	fmt.Println()

	helpOptions(cmd.FlagSet())
	fmt.Println()
}

func (cmd *Revisions) FlagSet() *flag.FlagSet {
	return cmd.flagset("revisions")
}

func (cmd *Revisions) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, logger, err := cmd.configure(options)
	if err != nil {
		return err
	}

	defer logger.Sync()

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration (%w)", err)
	}

	ctx := context.Background()
	scopes := append(conf.Scopes, drive.DriveMetadataReadonlyScope)

	client, err := authorize(ctx, conf.Credentials, conf.Tokens, scopes...)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	for _, v := range conf.WorkbookIDs() {
		id := strings.TrimSpace(v)

		latest, err := getRevision(ctx, gdrive, id)
		if err != nil {
			return err
		}

		fmt.Printf("%-44s  %-12s  %s\n", id, latest.revision, latest.modified.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

func getRevision(ctx context.Context, gdrive *drive.Service, fileId string) (*revision, error) {
	page := ""
	latest := revision{
		revision: "",
		modified: time.Time{},
	}

	for {
		call := gdrive.Revisions.List(fileId).Fields("nextPageToken", "revisions(id,modifiedTime)").Context(ctx)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve revisions for %v (%w)", fileId, err)
		}

		for _, r := range revisions.Revisions {
			datetime, err := time.Parse(time.RFC3339, r.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.modified.Before(datetime) {
				latest.revision = r.Id
				latest.modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for file ID %s", fileId)
	}

	return &latest, nil
}

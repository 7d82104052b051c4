package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/config"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/neighborhood/mongostore"
)

// importOpts holds the flags of the import command.
type importOpts struct {
	uri      string
	database string
}

// importCommand creates the import command, which loads a payload into the
// MongoDB argument source.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import [payload.json]",
		Short: "Load an argument graph into the MongoDB source",
		Long: `Import upserts every node and edge of a payload into the MongoDB
database used by the mongo source. Tree payloads are converted to their
node-link graph first. Importing the same payload twice is harmless.`,
		Example: `  argmap import corpus.json
  argmap import corpus.json --uri mongodb://localhost:27017 --database debates`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePayloads,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.uri, "uri", "", "MongoDB connection string (default: source url from config)")
	cmd.Flags().StringVar(&opts.database, "database", "", "database name (default from config)")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, input string, opts importOpts) error {
	uri, database := opts.uri, opts.database
	if uri == "" && c.cfg.Source.Kind == config.SourceMongo {
		uri = c.cfg.Source.URL
	}
	if database == "" {
		database = c.cfg.Source.Database
	}
	if uri == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no MongoDB URI: pass --uri or configure a mongo source")
	}

	p, err := argument.ReadPayloadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "load %s", input)
	}
	g, err := p.Graph()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "load %s", input)
	}

	spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
	spinner.Start()
	store, err := mongostore.Open(ctx, uri, database)
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	defer store.Close(context.Background())

	spinner.Update("Importing " + input + "...")
	if err := store.Import(ctx, argument.Delta{Nodes: g.Nodes(), Edges: g.Edges()}); err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.StopWithSuccess("Imported " + input)
	printStats(g, "")
	printKeyValue("Database", database)
	return nil
}

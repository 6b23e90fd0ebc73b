package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	docussandra "github.com/docussandra/docussandra-go"
	"github.com/docussandra/docussandra-go/pkg/models"
	"github.com/docussandra/docussandra-go/pkg/rest"
)

// kindCommand describes the command group of one resource kind.
type kindCommand[T models.Entity] struct {
	use     string
	aliases []string
	short   string
	path    string
	dao     func(*docussandra.Client) *rest.DAO[T]
}

var (
	databaseCommand = kindCommand[models.Database]{
		use:     "database",
		aliases: []string{"databases", "db"},
		short:   "Manage databases",
		path:    "<db>",
		dao:     func(c *docussandra.Client) *rest.DAO[models.Database] { return c.Databases },
	}
	tableCommand = kindCommand[models.Table]{
		use:     "table",
		aliases: []string{"tables"},
		short:   "Manage tables",
		path:    "<db>/<table>",
		dao:     func(c *docussandra.Client) *rest.DAO[models.Table] { return c.Tables },
	}
	indexCommand = kindCommand[models.Index]{
		use:     "index",
		aliases: []string{"indexes"},
		short:   "Manage indexes",
		path:    "<db>/<table>/<index>",
		dao:     func(c *docussandra.Client) *rest.DAO[models.Index] { return c.Indexes },
	}
	documentCommand = kindCommand[models.Document]{
		use:     "document",
		aliases: []string{"documents", "doc"},
		short:   "Manage documents",
		path:    "<db>/<table>/<uuid>",
		dao:     func(c *docussandra.Client) *rest.DAO[models.Document] { return c.Documents },
	}
)

// collectionPath is the path one level above a resource, e.g. "<db>/<table>" for an
// index. Databases have none.
func (k kindCommand[T]) collectionPath() string {
	i := strings.LastIndex(k.path, "/")
	if i < 0 {
		return ""
	}
	return k.path[:i]
}

func newKindCommand[T models.Entity](a *app, k kindCommand[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     k.use,
		Aliases: k.aliases,
		Short:   k.short,
	}
	cmd.AddCommand(
		k.getCommand(a),
		k.existsCommand(a),
		k.listCommand(a),
		k.createCommand(a),
		k.updateCommand(a),
		k.deleteCommand(a),
	)
	return cmd
}

func (k kindCommand[T]) getCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get " + k.path,
		Short: "Print one " + k.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseIdentifier(args[0])
			if err != nil {
				return err
			}
			res, err := k.dao(a.client).Read(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.print(res)
		},
	}
}

func (k kindCommand[T]) existsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists " + k.path,
		Short: "Print whether a " + k.use + " exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseIdentifier(args[0])
			if err != nil {
				return err
			}
			ok, err := k.dao(a.client).Exists(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, ok)
			return err
		},
	}
}

func (k kindCommand[T]) listCommand(a *app) *cobra.Command {
	var limit int
	var offset int64
	cmd := &cobra.Command{
		Use:   strings.TrimSpace("list " + k.collectionPath()),
		Short: "List " + k.use + " resources",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, err := optionalIdentifier(args)
			if err != nil {
				return err
			}
			list, err := k.dao(a.client).ReadAll(cmd.Context(), prefix, limit, offset)
			if err != nil {
				return err
			}
			return a.print(list.Values())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default: server default)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "number of items to skip")
	return cmd
}

func (k kindCommand[T]) createCommand(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   strings.TrimSpace("create " + k.collectionPath() + " --data <json|@file|->"),
		Short: "Create a " + k.use,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, err := optionalIdentifier(args)
			if err != nil {
				return err
			}
			obj, err := decodeData[T](data, cmd.InOrStdin())
			if err != nil {
				return err
			}
			created, err := k.dao(a.client).Create(cmd.Context(), prefix, obj)
			if err != nil {
				return err
			}
			return a.print(created)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON body, @file to read it from a file, or - for stdin")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (k kindCommand[T]) updateCommand(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update " + k.path + " --data <json|@file|->",
		Short: "Replace a " + k.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseIdentifier(args[0])
			if err != nil {
				return err
			}
			obj, err := decodeData[T](data, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if b, ok := any(&obj).(models.Binder); ok {
				b.SetIdentifier(id)
			}
			if !obj.Identifier().Equal(id) {
				return fmt.Errorf("body addresses %s, not %s", obj.Identifier(), id)
			}
			if err := k.dao(a.client).Update(cmd.Context(), obj); err != nil {
				return err
			}
			a.log.Info().Str("path", id.String()).Msg("updated " + k.use)
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON body, @file to read it from a file, or - for stdin")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (k kindCommand[T]) deleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete " + k.path + "...",
		Short: "Delete one or more " + k.use + " resources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			for _, arg := range args {
				id, err := models.ParseIdentifier(arg)
				if err == nil {
					err = k.dao(a.client).Delete(cmd.Context(), id)
				}
				if err != nil {
					result = multierror.Append(result, fmt.Errorf("%s: %w", arg, err))
					continue
				}
				a.log.Info().Str("path", arg).Msg("deleted " + k.use)
			}
			return result.ErrorOrNil()
		},
	}
}

func optionalIdentifier(args []string) (models.Identifier, error) {
	if len(args) == 0 {
		return models.Identifier{}, nil
	}
	return models.ParseIdentifier(args[0])
}

// decodeData reads a --data value: inline JSON, @path for a file, or - for stdin.
func decodeData[T any](data string, stdin io.Reader) (T, error) {
	var obj T
	var raw []byte
	switch {
	case data == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return obj, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return obj, err
		}
		raw = b
	default:
		raw = []byte(data)
	}
	if err := gojson.Unmarshal(raw, &obj); err != nil {
		return obj, fmt.Errorf("invalid --data: %w", err)
	}
	return obj, nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/docussandra/docussandra-go/pkg/models"
)

func newQueryCommand(a *app) *cobra.Command {
	var where string
	var limit int
	var offset int64
	cmd := &cobra.Command{
		Use:   "query <db> <table> --where <expr>",
		Short: "Find the documents of a table matching a where clause",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := models.Query{Database: args[0], Table: args[1], Where: where}
			res, err := a.client.Query(cmd.Context(), q, limit, offset)
			if err != nil {
				return err
			}
			return a.print(res.Values())
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "where clause over indexed fields, e.g. \"sku = 'A-1'\"")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default: server default)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "number of documents to skip")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/akualab/sonnet"
)

var (
	modelsCmd    = app.Command("models", "List the models in the store.")
	modelsDelete = modelsCmd.Flag("delete", "Delete every version of this model.").String()
)

func doModels() {

	s := openStore()
	defer s.Close()
	ctx := context.Background()

	if len(*modelsDelete) > 0 {
		sonnet.Fatal(s.Delete(ctx, *modelsDelete))
	}
	recs, e := s.List(ctx)
	sonnet.Fatal(e)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSTATES\tSYMBOLS\tDIGEST\tCREATED\tID")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\n", r.Name, r.Version, r.States, r.Symbols,
			r.Digest[:12], r.Created.Format(time.RFC3339), r.ID)
	}
	w.Flush()
}

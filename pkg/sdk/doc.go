// Package listquery evaluates list queries over in-memory record slices:
// free-text search, facet, numeric range and date range filters, a stable
// sort, 1-based pagination and selection reconciliation.
//
// Evaluation is pure. The same records, query, accessors and selection
// always produce the same result, and the records slice is never modified.
//
// # Low-level API
//
//	acc, _ := listquery.NewAccessors(func(c Campaign) string { return c.ID }).
//	    String("name", func(c Campaign) string { return c.Name }, listquery.Searchable()).
//	    String("status", func(c Campaign) string { return c.Status }).
//	    Number("revenue", func(c Campaign) float64 { return c.Revenue }).
//	    Build()
//
//	res, err := listquery.Evaluate(campaigns, listquery.Query{
//	    SearchTerm:   "spring",
//	    FacetFilters: map[string][]string{"status": {"Active"}},
//	    Sort:         listquery.Sort{Key: "revenue", Direction: listquery.Desc},
//	    Page:         listquery.Page{Index: 1, Size: 20},
//	}, acc, nil)
//
// # Struct tags and the fluent builder
//
//	type Campaign struct {
//	    ID      string    `listquery:"id,id"`
//	    Name    string    `listquery:"name,string,search"`
//	    Status  string    `listquery:"status,string"`
//	    Revenue float64   `listquery:"revenue,number"`
//	    Created time.Time `listquery:"createdAt,date"`
//	}
//
//	acc, _ := listquery.AccessorsFromStruct[Campaign]()
//	engine, _ := listquery.NewEngine(listquery.WithLogger(slog.Default()))
//	res, err := listquery.From(engine, acc, campaigns).
//	    Search("spring").
//	    Facet("status", "Active").
//	    Between("createdAt", "2024-01-01", "2024-06-30").
//	    SortBy("revenue", listquery.Desc).
//	    Page(1, 20).
//	    Do(ctx)
package listquery

// Package legalsearch provides a Go client for legal case and statute
// retrieval over Redis with the search and JSON modules.
//
// The client connects to the document store, embeds queries through an
// inference service, an OpenAI-compatible API or a caller-provided
// Embedder, and memoises every operation in a shared TTL cache.
//
//	client, _ := legalsearch.New(ctx,
//	    legalsearch.WithRedis("localhost:6379", ""),
//	    legalsearch.WithInference("http://localhost:8000"),
//	)
//	defer client.Close()
//
//	page, _ := client.Search(ctx, legalsearch.SearchRequest{
//	    Query:   "房屋买卖合同纠纷",
//	    Filters: []legalsearch.Filter{{Category: legalsearch.CategoryCourtLevel, Value: "高级"}},
//	})
//	for _, hit := range page.Hits {
//	    fmt.Println(hit.Document.Name, hit.Scores.SortScore)
//	}
//
// A page whose Degraded method reports true was served with at least one
// retrieval channel failing; it is returned but never cached.
package legalsearch

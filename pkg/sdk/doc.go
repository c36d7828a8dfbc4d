// Package discovery embeds the discovery search stack in a Go program: catalog
// search against the biblio core plus authority heading recommendations, without
// running the HTTP API.
//
//	client, _ := discovery.New(
//	    discovery.WithIndex("http://localhost:8983/solr"),
//	    discovery.WithHiddenFilter(discovery.Biblio, "format", "Book"),
//	    discovery.WithRecommendations("AuthorityRecommend:source:Local"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search("Twain").Type("Author").Limit(10).Do(ctx)
//	for _, h := range res.Recommendations["AuthorityRecommend"] {
//	    fmt.Println(h.ID, h.Heading)
//	}
//
//	headings, _ := client.Recommend(ctx, "Clemens", "")
package discovery

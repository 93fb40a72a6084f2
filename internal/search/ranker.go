package search

import "strings"

// SimilarityThreshold is the minimum trigram similarity between the query and
// a product name for the name alone to make the product match.
const SimilarityThreshold = 0.3

// Ranker produces the SQL fragments that match and score products against a
// text query. Fragments reference the products table by name and use "?"
// placeholders, in the order of the returned arguments.
type Ranker interface {
	Match(query string) (string, []interface{})
	Score(query string) (string, []interface{})
}

// RankerFor picks the ranker for a GORM dialect name.
func RankerFor(dialect string) Ranker {
	if dialect == "postgres" {
		return PostgresRanker{Languages: []string{"english", "russian"}}
	}
	return SubstringRanker{}
}

// PostgresRanker ranks by full-text relevance over the generated tsv column in
// every configured language, plus pg_trgm name similarity.
type PostgresRanker struct {
	Languages []string
}

func (r PostgresRanker) Match(query string) (string, []interface{}) {
	parts := make([]string, 0, len(r.Languages)+1)
	args := make([]interface{}, 0, len(r.Languages)+2)
	for _, lang := range r.Languages {
		parts = append(parts, "products.tsv @@ "+tsQuery(lang))
		args = append(args, query)
	}
	parts = append(parts, "similarity(products.name, ?) > ?")
	args = append(args, query, SimilarityThreshold)
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (r PostgresRanker) Score(query string) (string, []interface{}) {
	parts := make([]string, 0, len(r.Languages)+1)
	args := make([]interface{}, 0, len(r.Languages)+1)
	for _, lang := range r.Languages {
		parts = append(parts, "ts_rank_cd(products.tsv, "+tsQuery(lang)+")")
		args = append(args, query)
	}
	parts = append(parts, "similarity(products.name, ?)")
	args = append(args, query)
	return "(" + strings.Join(parts, " + ") + ")", args
}

// tsQuery renders a websearch query for a text search configuration. Language
// names come from code, never from requests.
func tsQuery(lang string) string {
	return "websearch_to_tsquery('" + lang + "', ?)"
}

// SubstringRanker is the portable fallback for engines without tsvector or
// pg_trgm. It matches a case-insensitive substring of the name or description
// and scores name hits above description hits.
type SubstringRanker struct{}

func (SubstringRanker) Match(query string) (string, []interface{}) {
	pattern := likePattern(query)
	return `(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`,
		[]interface{}{pattern, pattern}
}

func (SubstringRanker) Score(query string) (string, []interface{}) {
	pattern := likePattern(query)
	return `(CASE WHEN LOWER(products.name) LIKE ? ESCAPE '\' THEN 2 ELSE 0 END + ` +
			`CASE WHEN LOWER(products.description) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END)`,
		[]interface{}{pattern, pattern}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

package services

import (
	"fmt"
	"net/url"
	"strings"
)

// EscapeQuery percent-encodes free search text for the search path segment.
//
// Matches encodeURIComponent (space is %20, "~" is kept) and additionally encodes ! ' ( ) * as %21 %27 %28 %29 %2A.
// The result is trimmed. Callers trim the input first; empty input yields "".
func EscapeQuery(text string) string {
	// QueryEscape already encodes !'()* and only differs from encodeURIComponent on spaces.
	escaped := url.QueryEscape(text)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.TrimSpace(escaped)
}

func topEndpoint(userID string) string {
	return fmt.Sprintf("/recipe/top/%s", url.PathEscape(userID))
}

func personalEndpoint(userID string) string {
	id := url.PathEscape(userID)
	return fmt.Sprintf("/recipe/user/%s/%s", id, id)
}

func savedEndpoint(userID string) string {
	return fmt.Sprintf("/user/save/%s", url.PathEscape(userID))
}

// searchEndpoint wraps the escaped query in encoded quotes so the request keeps the exact escaping on the wire.
func searchEndpoint(query, userID string) string {
	return fmt.Sprintf("/recipe/search/%%22%s%%22/%s", EscapeQuery(query), url.PathEscape(userID))
}

func userEndpoint(authorID string) string {
	return fmt.Sprintf("/user/%s", url.PathEscape(authorID))
}

func stepsEndpoint(recipeID string) string {
	return fmt.Sprintf("/recipe/%s/steps/", url.PathEscape(recipeID))
}

func ingredientsEndpoint(recipeID string) string {
	return fmt.Sprintf("/recipe/%s/ingredients/", url.PathEscape(recipeID))
}

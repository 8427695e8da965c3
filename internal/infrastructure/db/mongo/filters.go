package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resihub/community-system/internal/core/policy"
)

// regexEscape neutralizes user-supplied search text before it is embedded
// in a case-insensitive regex filter.
func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}

// searchRegex builds the case-insensitive partial-match primitive for
// free-text search filters.
func searchRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexEscape(s), Options: "i"}
}

// applyScope translates the policy scope predicate into query fields on a
// complaint-shaped collection (submitter.id / assignee.id / community_id).
func applyScope(query bson.M, scope policy.Scope) bson.M {
	if scope.SubmitterID != "" {
		query["submitter.id"] = scope.SubmitterID
	}
	if scope.AssigneeID != "" {
		query["assignee.id"] = scope.AssigneeID
	}
	if scope.CommunityID != "" {
		query["community_id"] = scope.CommunityID
	}
	return query
}

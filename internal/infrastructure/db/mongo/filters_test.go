package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/resihub/community-system/internal/core/policy"
)

func TestApplyScope(t *testing.T) {
	q := applyScope(bson.M{}, policy.Scope{SubmitterID: "res-1", CommunityID: "comm-1"})
	if q["submitter.id"] != "res-1" || q["community_id"] != "comm-1" {
		t.Errorf("scope not translated: %v", q)
	}
	if _, ok := q["assignee.id"]; ok {
		t.Errorf("empty predicate leaked into query: %v", q)
	}

	if q := applyScope(bson.M{}, policy.Scope{}); len(q) != 0 {
		t.Errorf("unscoped query must stay empty: %v", q)
	}
}

func TestSearchRegex_EscapesUserInput(t *testing.T) {
	r := searchRegex("a.c(")
	if r.Pattern != `a\.c\(` {
		t.Errorf("pattern = %q, want metacharacters quoted", r.Pattern)
	}
	if r.Options != "i" {
		t.Errorf("options = %q, want i", r.Options)
	}
}

func TestRepositoryTimeout(t *testing.T) {
	if defaultTimeout <= 0 {
		t.Fatalf("defaultTimeout = %v", defaultTimeout)
	}
}

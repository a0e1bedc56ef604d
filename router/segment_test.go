package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Run("parses literal segments", func(t *testing.T) {
		segs, err := parseTemplate("/users/active")
		require.NoError(t, err)
		require.Len(t, segs, 2)
		assert.Equal(t, Segment{Kind: SegmentLiteral, Literal: "users"}, segs[0])
		assert.Equal(t, Segment{Kind: SegmentLiteral, Literal: "active"}, segs[1])
	})

	t.Run("parses named parameters", func(t *testing.T) {
		segs, err := parseTemplate("/users/:id")
		require.NoError(t, err)
		require.Len(t, segs, 2)
		assert.Equal(t, Segment{Kind: SegmentParam, Name: "id"}, segs[1])
	})

	t.Run("parses suffixed parameters", func(t *testing.T) {
		segs, err := parseTemplate("/profiles/profile-:id")
		require.NoError(t, err)
		require.Len(t, segs, 2)
		assert.Equal(t, Segment{Kind: SegmentSuffixed, Literal: "profile-", Name: "id"}, segs[1])
	})

	t.Run("parses trailing splat", func(t *testing.T) {
		segs, err := parseTemplate("/backups/*path")
		require.NoError(t, err)
		require.Len(t, segs, 2)
		assert.Equal(t, Segment{Kind: SegmentSplat, Name: "path"}, segs[1])
	})

	t.Run("root parses to zero segments", func(t *testing.T) {
		for _, tpl := range []string{"", "/", "//"} {
			segs, err := parseTemplate(tpl)
			require.NoError(t, err)
			assert.Empty(t, segs, "template %q", tpl)
		}
	})

	t.Run("drops empty segments", func(t *testing.T) {
		segs, err := parseTemplate("//users//:id/")
		require.NoError(t, err)
		assert.Len(t, segs, 2)
	})

	t.Run("rejects invalid parameter name", func(t *testing.T) {
		for _, tpl := range []string{"/users/:", "/users/:1id", "/users/:id-x", "/files/*", "/p/pre-:"} {
			_, err := parseTemplate(tpl)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr, "template %q", tpl)
			assert.Equal(t, InvalidParamName, parseErr.Reason, "template %q", tpl)
		}
	})

	t.Run("rejects splat before the end", func(t *testing.T) {
		_, err := parseTemplate("/files/*path/raw")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, SplatNotLast, parseErr.Reason)
		assert.Equal(t, "*path", parseErr.Segment)
	})

	t.Run("rejects duplicate parameter names", func(t *testing.T) {
		_, err := parseTemplate("/orgs/:id/users/:id")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, DuplicateParamName, parseErr.Reason)
	})

	t.Run("rejects splat name colliding with a parameter", func(t *testing.T) {
		_, err := parseTemplate("/files/:path/*path")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, DuplicateParamName, parseErr.Reason)
	})

	t.Run("malformed percent-escape in a literal is not a parse error", func(t *testing.T) {
		segs, err := parseTemplate("/files/bad%zz")
		require.NoError(t, err)
		require.Len(t, segs, 2)
		assert.Equal(t, "bad%zz", segs[1].Literal)
	})

	t.Run("parse error message names template and reason", func(t *testing.T) {
		_, err := parseTemplate("/users/:1id")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/users/:1id")
		assert.Contains(t, err.Error(), "invalid parameter name")
	})
}

func TestSplitPath(t *testing.T) {
	t.Run("splits on slash dropping empties", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, splitPath("/a//b/"))
	})

	t.Run("empty path yields zero segments", func(t *testing.T) {
		assert.Empty(t, splitPath(""))
		assert.Empty(t, splitPath("/"))
	})
}

func TestParamNames(t *testing.T) {
	t.Run("returns bound names in order", func(t *testing.T) {
		segs, err := parseTemplate("/orgs/:org/files/prefix-:name/*rest")
		require.NoError(t, err)
		assert.Equal(t, []string{"org", "name", "rest"}, paramNames(segs))
	})
}

func TestParseReasonString(t *testing.T) {
	t.Run("covers every reason", func(t *testing.T) {
		assert.Equal(t, "invalid parameter name", InvalidParamName.String())
		assert.Equal(t, "splat segment must be last", SplatNotLast.String())
		assert.Equal(t, "duplicate parameter name", DuplicateParamName.String())
	})
}

func TestBuildErrors(t *testing.T) {
	t.Run("joins messages and unwraps", func(t *testing.T) {
		errA := errors.New("a")
		errB := errors.New("b")
		joined := buildErrors{errA, errB}
		assert.Equal(t, "a; b", joined.Error())
		assert.ErrorIs(t, joined, errA)
		assert.ErrorIs(t, joined, errB)
	})
}

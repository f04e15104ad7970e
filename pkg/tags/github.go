package tags

import (
	"context"

	"github.com/matzehuels/gitbump/pkg/errors"
	"github.com/matzehuels/gitbump/pkg/integrations/hosted"
)

// RefSource returns the tag refs of a GitHub repository rendered as
// ls-remote text. It is implemented by the github integration client.
type RefSource interface {
	TagRefs(ctx context.Context, owner, repo string) (string, error)
}

// GitHub lists tags through the GitHub REST API. Locators that do not name
// a github.com repository go to Fallback.
type GitHub struct {
	Refs     RefSource
	Fallback Lister
}

// ListTags implements Lister.
func (g *GitHub) ListTags(ctx context.Context, url string) ([]string, error) {
	repo, ok := hosted.Parse(url)
	if ok && repo.IsGitHub() {
		return query(ctx, "github", url, func() (string, error) {
			return g.Refs.TagRefs(ctx, repo.Owner, repo.Name)
		})
	}
	if g.Fallback != nil {
		return g.Fallback.ListTags(ctx, url)
	}
	return query(ctx, "github", url, func() (string, error) {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s is not a github.com repository", url)
	})
}

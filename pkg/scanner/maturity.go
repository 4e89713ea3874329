package scanner

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
	"github.com/depaudit/depaudit/pkg/registry"
)

// MaturityWeights are the fixed factor weights of the Project Maturity
// Index: age 30%, documentation 20%, activity 30%, adoption 20%.
var MaturityWeights = map[string]float64{
	"age":           0.30,
	"documentation": 0.20,
	"activity":      0.30,
	"adoption":      0.20,
}

// maxConcurrentFetches bounds the metadata fan-out per scan.
const maxConcurrentFetches = 8

// noReleaseDays is reported when a package has no parseable release dates.
const noReleaseDays = 9999

// MaturityScorer computes the Project Maturity Index from registry metadata
// and source-host star counts.
type MaturityScorer struct {
	client *registry.Client
	now    func() time.Time
}

// NewMaturityScorer creates a scorer backed by the given registry client.
func NewMaturityScorer(cfg *config.Config, client *registry.Client) *MaturityScorer {
	return &MaturityScorer{client: client, now: time.Now}
}

// Scan scores maturity for every dependency. Fetches fan out concurrently;
// unreachable metadata degrades to a default score so one bad package never
// aborts the batch.
func (s *MaturityScorer) Scan(ctx context.Context, deps []model.Dependency, cache *registry.Cache) map[string]model.MaturityScore {
	scores := make(map[string]model.MaturityScore, len(deps))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, dep := range deps {
		dep := dep
		g.Go(func() error {
			score := s.scorePackage(ctx, dep.Name, cache)
			mu.Lock()
			scores[dep.Name] = score
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return scores
}

func (s *MaturityScorer) scorePackage(ctx context.Context, name string, cache *registry.Cache) model.MaturityScore {
	project, ok := cache.Get(name)
	if !ok {
		var err error
		project, err = s.client.Project(ctx, name)
		if err != nil {
			logger.Debugf("maturity: metadata unavailable for %s: %v", name, err)
			return defaultMaturityScore(name)
		}
		cache.Put(name, project)
	}
	if project == nil {
		return defaultMaturityScore(name)
	}

	factors := map[string]float64{}
	details := map[string]any{"package": name}

	ageDays := s.packageAgeDays(project.Releases)
	details["age_days"] = ageDays
	factors["age"] = ageFactor(ageDays)

	docLength := len(project.Info.Description) + len(project.Info.Summary)
	hasLicense := strings.TrimSpace(project.Info.License) != ""
	hasRepo := project.Info.ProjectURLs["Repository"] != "" ||
		project.Info.ProjectURLs["Source"] != "" ||
		project.Info.HomePage != ""
	details["doc_length"] = docLength
	details["has_license"] = hasLicense
	details["has_repository"] = hasRepo
	factors["documentation"] = documentationFactor(docLength, hasLicense, hasRepo)

	lastReleaseDays := s.daysSinceLastRelease(project.Releases)
	details["days_since_last_release"] = lastReleaseDays
	factors["activity"] = activityFactor(lastReleaseDays)

	versionCount := len(project.Releases)
	details["version_count"] = versionCount
	stars := 0
	if repoURL := githubURL(project.Info); repoURL != "" {
		stars = s.client.Stars(ctx, repoURL)
		details["github_stars"] = stars
	}
	factors["adoption"] = adoptionFactor(versionCount, stars)

	if latest := project.LatestStable(); latest != "" {
		details["latest_version"] = latest
	}

	return model.NewMaturityScore(name, factors, MaturityWeights, details)
}

// defaultMaturityScore is the degraded record emitted when metadata cannot
// be fetched: 50 / emerging with an error marker in the details.
func defaultMaturityScore(name string) model.MaturityScore {
	return model.MaturityScore{
		PackageName:   name,
		OverallScore:  50.0,
		MaturityLevel: model.MaturityEmerging,
		Factors:       map[string]float64{},
		Details:       map[string]any{"error": "could not fetch metadata"},
	}
}

func ageFactor(days int) float64 {
	switch {
	case days >= 3*365:
		return 100
	case days >= 365:
		return 75
	case days >= 180:
		return 50
	case days >= 30:
		return 25
	default:
		return 10
	}
}

func documentationFactor(docLength int, hasLicense, hasRepo bool) float64 {
	var score float64
	switch {
	case docLength >= 2000:
		score = 50
	case docLength >= 500:
		score = 35
	case docLength >= 100:
		score = 20
	default:
		score = 5
	}
	if hasLicense {
		score += 25
	}
	if hasRepo {
		score += 25
	}
	return math.Min(score, 100)
}

func activityFactor(daysSinceLastRelease int) float64 {
	switch {
	case daysSinceLastRelease <= 90:
		return 100
	case daysSinceLastRelease <= 180:
		return 75
	case daysSinceLastRelease <= 365:
		return 50
	case daysSinceLastRelease <= 730:
		return 25
	default:
		return 10
	}
}

func adoptionFactor(versionCount, stars int) float64 {
	var score float64
	switch {
	case versionCount >= 20:
		score = 40
	case versionCount >= 10:
		score = 30
	case versionCount >= 5:
		score = 20
	default:
		score = 10
	}
	switch {
	case stars >= 1000:
		score += 60
	case stars >= 100:
		score += 45
	case stars >= 10:
		score += 30
	default:
		score += 15
	}
	return math.Min(score, 100)
}

// packageAgeDays returns days since the earliest release upload, or 0 when
// no release has a parseable timestamp.
func (s *MaturityScorer) packageAgeDays(releases map[string][]registry.ReleaseFile) int {
	var earliest time.Time
	for _, files := range releases {
		for _, f := range files {
			if f.UploadTime.IsZero() {
				continue
			}
			if earliest.IsZero() || f.UploadTime.Before(earliest) {
				earliest = f.UploadTime.Time
			}
		}
	}
	if earliest.IsZero() {
		return 0
	}
	return int(s.now().UTC().Sub(earliest).Hours() / 24)
}

// daysSinceLastRelease returns days since the most recent release upload.
func (s *MaturityScorer) daysSinceLastRelease(releases map[string][]registry.ReleaseFile) int {
	var latest time.Time
	for _, files := range releases {
		for _, f := range files {
			if f.UploadTime.IsZero() {
				continue
			}
			if f.UploadTime.After(latest) {
				latest = f.UploadTime.Time
			}
		}
	}
	if latest.IsZero() {
		return noReleaseDays
	}
	return int(s.now().UTC().Sub(latest).Hours() / 24)
}

// githubURL extracts a GitHub repository URL from the project metadata, if
// one is present.
func githubURL(info registry.Info) string {
	for _, key := range []string{"Repository", "Source", "GitHub", "Homepage", "Home"} {
		if url := info.ProjectURLs[key]; strings.Contains(url, "github.com") {
			return url
		}
	}
	if strings.Contains(info.HomePage, "github.com") {
		return info.HomePage
	}
	return ""
}

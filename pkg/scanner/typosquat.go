package scanner

import (
	"strings"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/model"
)

// PopularPackages is the curated reference set of popular PyPI package names
// that counterfeit names imitate. Order fixes the evaluation order of the
// best-match reduction, keeping scans deterministic.
var PopularPackages = []string{
	"requests", "numpy", "pandas", "matplotlib", "scipy", "django",
	"flask", "tensorflow", "torch", "keras", "pillow", "sqlalchemy",
	"beautifulsoup4", "selenium", "pytest", "boto3", "pyyaml", "redis",
	"celery", "cryptography", "httpx", "fastapi", "pydantic", "black",
	"mypy", "pylint", "setuptools", "pip", "wheel", "virtualenv",
	"tqdm", "click", "colorama", "rich", "typer", "poetry",
	"jupyter", "notebook", "ipython", "scikit-learn", "xgboost",
	"lightgbm", "opencv-python", "transformers", "huggingface-hub",
	"aiohttp", "asyncio", "uvicorn", "gunicorn", "werkzeug",
	"jinja2", "markdown", "pygments", "sphinx", "mkdocs",
	"psycopg2", "pymongo", "elasticsearch", "kafka-python",
	"paramiko", "fabric", "ansible", "docker", "kubernetes",
	"aws-cdk", "google-cloud-storage", "azure-storage-blob",
	"blinker", "itsdangerous", "markupsafe", "starlette", "anyio",
	"asgiref", "python-dotenv", "orjson", "ujson", "msgpack",
}

// TrustedAllowlist holds well-known packages with confusable names that must
// never be flagged as typosquats.
var TrustedAllowlist = []string{
	"blinker",
	"itsdangerous",
	"markupsafe",
	"werkzeug",
	"jinja2",
	"click",
	"starlette",
	"anyio",
	"asgiref",
	"httpcore",
	"sniffio",
	"h11",
	"certifi",
	"charset-normalizer",
	"idna",
	"urllib3",
	"six",
	"typing-extensions",
}

// TyposquatScanner flags dependency names that look like counterfeits of
// popular packages. The popular and allow lists are immutable data captured
// at construction, so a scanner is safe to share across scans.
type TyposquatScanner struct {
	threshold  float64
	popular    []string
	popularSet map[string]struct{}
	allowlist  map[string]struct{}
}

// NewTyposquatScanner builds a scanner using the configured similarity
// threshold and the default popular/allow lists.
func NewTyposquatScanner(cfg *config.Config) *TyposquatScanner {
	threshold := cfg.TyposquatThreshold
	if threshold <= 0 {
		threshold = 0.85
	}
	return &TyposquatScanner{
		threshold:  threshold,
		popular:    PopularPackages,
		popularSet: toSet(PopularPackages),
		allowlist:  toSet(TrustedAllowlist),
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Scan checks every dependency name and returns the matches found, in input
// order.
func (s *TyposquatScanner) Scan(deps []model.Dependency) []model.TyposquatMatch {
	var matches []model.TyposquatMatch
	for _, dep := range deps {
		if match, ok := s.Check(dep.Name); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

// candidate is one (score, name, method) evaluation in the best-match
// reduction.
type candidate struct {
	score  float64
	name   string
	method string
}

// Check evaluates a single package name against the popular set. Names that
// are themselves popular or on the allow list never match.
func (s *TyposquatScanner) Check(packageName string) (model.TyposquatMatch, bool) {
	name := strings.ReplaceAll(strings.ToLower(packageName), "_", "-")

	if _, ok := s.popularSet[name]; ok {
		return model.TyposquatMatch{}, false
	}
	if _, ok := s.allowlist[name]; ok {
		return model.TyposquatMatch{}, false
	}

	// Pure reduction over all (popular, strategy) evaluations: highest score
	// wins, last writer on an exact tie.
	var best candidate
	for _, popular := range s.popular {
		for _, cand := range evaluate(name, popular, s.threshold) {
			if cand.score >= best.score {
				best = cand
			}
		}
	}

	if best.name == "" || best.score < s.threshold {
		return model.TyposquatMatch{}, false
	}
	return model.TyposquatMatch{
		SuspiciousPackage: packageName,
		LegitimatePackage: best.name,
		SimilarityScore:   best.score,
		DetectionMethod:   best.method,
		RiskLevel:         typosquatRiskLevel(best.score),
	}, true
}

// evaluate runs the four detection strategies against one popular name, in
// fixed order. Edit-distance scores below the threshold are not candidates.
func evaluate(name, popular string, threshold float64) []candidate {
	var out []candidate
	if score := EditDistanceSimilarity(name, popular); score >= threshold {
		out = append(out, candidate{score, popular, model.MethodLevenshtein})
	}
	if IsCharacterSwap(name, popular) {
		out = append(out, candidate{swapConfidence, popular, model.MethodCharacterSwap})
	}
	if IsHomoglyph(name, popular) {
		out = append(out, candidate{homoglyphConfidence, popular, model.MethodHomoglyph})
	}
	if score := AffixConfidence(name, popular); score > 0 {
		out = append(out, candidate{score, popular, model.MethodPrefixSuffix})
	}
	return out
}

func typosquatRiskLevel(score float64) string {
	switch {
	case score >= 0.95:
		return model.RiskHigh
	case score >= 0.9:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

package scanner

import (
	"strings"

	"github.com/depaudit/depaudit/pkg/model"
)

// taxonomy binds a role keyword to the name patterns that identify it.
// Matching is substring-based in both directions to tolerate prefixed and
// suffixed package name variants.
type taxonomy struct {
	Role     string
	Patterns []string
}

// ConditionallyRelevantTaxonomies identify packages whose risk depends on
// how they are used. Checked first: several of these names would otherwise
// also match the security-relevant patterns.
var ConditionallyRelevantTaxonomies = []taxonomy{
	{Role: "template", Patterns: []string{
		"jinja2", "jinja", "mako", "chameleon", "genshi",
	}},
	{Role: "markup", Patterns: []string{
		"markupsafe", "bleach", "html",
	}},
	{Role: "signaling", Patterns: []string{
		"blinker",
	}},
	{Role: "wsgi", Patterns: []string{
		"werkzeug", "itsdangerous",
	}},
}

// SecurityRelevantTaxonomies identify packages that touch the network,
// parse untrusted input, or hold security-critical roles.
var SecurityRelevantTaxonomies = []taxonomy{
	{Role: "network", Patterns: []string{
		"requests", "httpx", "aiohttp", "urllib3", "httplib2",
		"tornado", "twisted", "socket", "websocket", "grpc",
		"fastapi", "flask", "django", "starlette", "uvicorn",
		"gunicorn", "hypercorn", "sanic", "bottle", "falcon",
	}},
	{Role: "parser", Patterns: []string{
		"lxml", "beautifulsoup", "html5lib", "xml", "yaml", "pyyaml",
		"json", "ujson", "orjson", "msgpack", "pickle", "marshal",
		"csv", "pandas", "numpy", "pillow", "imageio",
	}},
	{Role: "crypto", Patterns: []string{
		"cryptography", "pycryptodome", "hashlib", "ssl", "tls",
		"jwt", "pyjwt", "python-jose", "authlib", "oauthlib",
		"passlib", "bcrypt", "argon2", "scrypt", "secrets",
	}},
	{Role: "auth", Patterns: []string{
		"auth", "oauth", "saml", "ldap", "kerberos", "sso",
		"login", "session", "token", "credential", "identity",
	}},
	{Role: "database", Patterns: []string{
		"sqlalchemy", "psycopg", "pymysql", "mysql", "postgres",
		"sqlite", "mongodb", "pymongo", "redis", "celery",
		"elasticsearch", "cassandra", "dynamodb", "firebase",
	}},
	{Role: "file", Patterns: []string{
		"pathlib", "shutil", "tempfile", "zipfile", "tarfile",
		"gzip", "bz2", "lzma", "io", "mmap",
	}},
	{Role: "system", Patterns: []string{
		"subprocess", "os", "sys", "multiprocessing", "threading",
		"asyncio", "concurrent", "signal", "ctypes", "cffi",
	}},
}

// SupportTaxonomies identify low-risk typing, documentation, testing, and
// development tooling.
var SupportTaxonomies = []taxonomy{
	{Role: "typing", Patterns: []string{
		"typing", "typing-extensions", "mypy", "pyright", "types-",
		"typeguard", "pydantic", "attrs", "dataclasses",
	}},
	{Role: "docs", Patterns: []string{
		"sphinx", "mkdocs", "pdoc", "docutils", "readme",
		"changelog", "towncrier", "annotated",
	}},
	{Role: "testing", Patterns: []string{
		"pytest", "unittest", "nose", "mock", "faker",
		"hypothesis", "coverage", "tox", "nox",
	}},
	{Role: "dev", Patterns: []string{
		"black", "flake8", "pylint", "isort", "autopep8",
		"pre-commit", "commitizen", "bumpversion",
	}},
	{Role: "cli", Patterns: []string{
		"click", "argparse", "fire", "typer", "rich",
		"colorama", "termcolor", "tqdm", "progressbar",
	}},
	{Role: "utility", Patterns: []string{
		"six", "future", "compat", "backports", "importlib",
		"functools", "itertools", "collections", "operator",
	}},
}

// Classifier maps package names to risk categories using fixed keyword
// taxonomies. The taxonomy tables are immutable data shared by reference;
// a classifier holds no per-scan state.
type Classifier struct {
	conditional []taxonomy
	security    []taxonomy
	support     []taxonomy
}

// NewClassifier creates a classifier with the default taxonomies.
func NewClassifier() *Classifier {
	return &Classifier{
		conditional: ConditionallyRelevantTaxonomies,
		security:    SecurityRelevantTaxonomies,
		support:     SupportTaxonomies,
	}
}

// Classify maps a package name to exactly one risk category. Unknown
// packages are reported as conditionally relevant for manual review, never
// silently downgraded to support.
func (c *Classifier) Classify(packageName string) model.PackageClassification {
	name := normalizePatternName(packageName)

	if name != "" {
		if role, ok := matchTaxonomies(c.conditional, name); ok {
			return model.PackageClassification{
				PackageName: packageName,
				Category:    model.CategoryConditionallyRelevant,
				Reason:      titleRole(role) + " - depends on usage",
				Keywords:    []string{role},
			}
		}
		if role, ok := matchTaxonomies(c.security, name); ok {
			return model.PackageClassification{
				PackageName: packageName,
				Category:    model.CategorySecurityRelevant,
				Reason:      titleRole(role) + " component",
				Keywords:    []string{role},
			}
		}
		if role, ok := matchTaxonomies(c.support, name); ok {
			return model.PackageClassification{
				PackageName: packageName,
				Category:    model.CategorySupport,
				Reason:      titleRole(role) + " library",
				Keywords:    []string{role},
			}
		}
	}

	return model.PackageClassification{
		PackageName: packageName,
		Category:    model.CategoryConditionallyRelevant,
		Reason:      "Unclassified - review manually",
		Keywords:    []string{"unknown"},
	}
}

// ClassifyDependencies groups dependencies by risk category, preserving
// input order within each group.
func (c *Classifier) ClassifyDependencies(deps []model.Dependency) map[model.RiskCategory][]model.ClassifiedDependency {
	result := map[model.RiskCategory][]model.ClassifiedDependency{
		model.CategorySecurityRelevant:      {},
		model.CategoryConditionallyRelevant: {},
		model.CategorySupport:               {},
	}
	for _, dep := range deps {
		classification := c.Classify(dep.Name)
		result[classification.Category] = append(result[classification.Category], model.ClassifiedDependency{
			Dependency:     dep,
			Classification: classification,
		})
	}
	return result
}

func matchTaxonomies(groups []taxonomy, name string) (string, bool) {
	for _, group := range groups {
		for _, pattern := range group.Patterns {
			normalized := normalizePatternName(pattern)
			if strings.Contains(name, normalized) || strings.Contains(normalized, name) {
				return group.Role, true
			}
		}
	}
	return "", false
}

// normalizePatternName lowercases and strips hyphens/underscores so that
// prefixed or suffixed variants still match.
func normalizePatternName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}

func titleRole(role string) string {
	if role == "" {
		return role
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

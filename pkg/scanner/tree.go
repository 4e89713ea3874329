package scanner

import (
	"context"
	"strings"

	"github.com/depaudit/depaudit/pkg/config"
	"github.com/depaudit/depaudit/pkg/logger"
	"github.com/depaudit/depaudit/pkg/model"
	"github.com/depaudit/depaudit/pkg/registry"
)

// Tree is a resolved dependency forest: one tree per direct dependency,
// stored as an arena of nodes with explicit child index lists.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
	Roots []int      `json:"roots"`
}

// TreeNode is one package occurrence in the tree. The same package may
// appear in multiple branches, but never twice on a single root-to-leaf
// path.
type TreeNode struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Depth    int    `json:"depth"`
	Parent   int    `json:"-"` // -1 for roots
	Children []int  `json:"children,omitempty"`
}

// Key returns the name@version identity of the node.
func (n TreeNode) Key() string {
	return n.Name + "@" + n.Version
}

// TreeStats summarizes a resolved tree.
type TreeStats struct {
	DirectCount     int `json:"direct_count"`
	TransitiveCount int `json:"transitive_count"`
	TotalPackages   int `json:"total_packages"`
	MaxDepth        int `json:"max_depth"`
}

// TreeResolver builds transitive dependency trees by recursively fetching
// declared requirements from the registry. Resolution is best-effort:
// transitive versions are unresolved wildcards unless independently pinned.
type TreeResolver struct {
	client   *registry.Client
	maxDepth int
}

// NewTreeResolver creates a resolver bounded by the configured maximum
// depth.
func NewTreeResolver(cfg *config.Config, client *registry.Client) *TreeResolver {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 10
	}
	return &TreeResolver{client: client, maxDepth: maxDepth}
}

// Resolve builds one tree per direct dependency. Fetch failures yield leaf
// nodes rather than errors, and requirement lookups are memoized per
// name@version for the duration of the build.
func (r *TreeResolver) Resolve(ctx context.Context, deps []model.Dependency) *Tree {
	build := &treeBuild{
		resolver: r,
		tree:     &Tree{},
		memo:     map[string][]string{},
	}
	for _, dep := range deps {
		root := build.addNode(dep.Name, dep.Version, 0, -1)
		build.tree.Roots = append(build.tree.Roots, root)
		build.expand(ctx, root)
	}
	return build.tree
}

// treeBuild carries the state of one tree construction: the node arena and
// the per-build requirement memo.
type treeBuild struct {
	resolver *TreeResolver
	tree     *Tree
	memo     map[string][]string
}

func (b *treeBuild) addNode(name, version string, depth, parent int) int {
	idx := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, TreeNode{
		Name:    name,
		Version: version,
		Depth:   depth,
		Parent:  parent,
	})
	if parent >= 0 {
		b.tree.Nodes[parent].Children = append(b.tree.Nodes[parent].Children, idx)
	}
	return idx
}

// expand resolves and attaches the children of the node at idx. Reaching the
// depth limit or revisiting a key already on the current path terminates the
// branch, never the build.
func (b *treeBuild) expand(ctx context.Context, idx int) {
	node := b.tree.Nodes[idx]
	if node.Depth >= b.resolver.maxDepth {
		return
	}
	if b.onPath(node.Parent, node.Key()) {
		logger.Debugf("tree: cycle at %s, stopping branch", node.Key())
		return
	}
	for _, name := range b.requirements(ctx, node.Name, node.Version) {
		child := b.addNode(name, model.WildcardVersion, node.Depth+1, idx)
		b.expand(ctx, child)
	}
}

// onPath walks the parent chain from idx to the root, checking for key.
func (b *treeBuild) onPath(idx int, key string) bool {
	for idx >= 0 {
		if b.tree.Nodes[idx].Key() == key {
			return true
		}
		idx = b.tree.Nodes[idx].Parent
	}
	return false
}

// requirements fetches and parses the declared requirements of a package,
// memoized per name@version. Any fetch failure yields an empty list.
func (b *treeBuild) requirements(ctx context.Context, name, version string) []string {
	key := name + "@" + version
	if deps, ok := b.memo[key]; ok {
		return deps
	}

	var project *registry.Project
	var err error
	if version != "" && version != model.WildcardVersion {
		project, err = b.resolver.client.ProjectVersion(ctx, name, version)
	} else {
		project, err = b.resolver.client.Project(ctx, name)
	}
	if err != nil {
		logger.Debugf("tree: requirements unavailable for %s: %v", key, err)
		b.memo[key] = nil
		return nil
	}

	var deps []string
	for _, req := range project.Info.RequiresDist {
		// Requirements gated on an extras marker are optional-only.
		if strings.Contains(req, ";") && strings.Contains(req, "extra") {
			continue
		}
		if reqName := parseRequirementName(req); reqName != "" {
			deps = append(deps, reqName)
		}
	}
	b.memo[key] = deps
	return deps
}

// parseRequirementName extracts the bare package name from a requirement
// string such as "requests (>=2.0)" or "charset-normalizer<4,>=2".
func parseRequirementName(req string) string {
	fields := strings.Fields(req)
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	if i := strings.IndexAny(name, "[<>=!"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// RenderASCII renders the forest with box-drawing connectors: a corner for
// the last child, a tee for siblings, and continuation bars for nesting.
func (t *Tree) RenderASCII() string {
	var lines []string
	for i, root := range t.Roots {
		t.renderNode(root, "", i == len(t.Roots)-1, &lines)
	}
	return strings.Join(lines, "\n")
}

func (t *Tree) renderNode(idx int, prefix string, isLast bool, lines *[]string) {
	node := t.Nodes[idx]

	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	*lines = append(*lines, prefix+connector+node.Key())

	for i, child := range node.Children {
		t.renderNode(child, childPrefix, i == len(node.Children)-1, lines)
	}
}

// VulnerablePaths returns every root-to-match path that reaches a package in
// the vulnerable set, each path as an ordered list of name@version keys.
func (t *Tree) VulnerablePaths(vulnerable []string) [][]string {
	targets := make(map[string]struct{}, len(vulnerable))
	for _, name := range vulnerable {
		targets[strings.ToLower(name)] = struct{}{}
	}

	var paths [][]string
	for _, root := range t.Roots {
		t.findPaths(root, nil, targets, &paths)
	}
	return paths
}

func (t *Tree) findPaths(idx int, path []string, targets map[string]struct{}, out *[][]string) {
	node := t.Nodes[idx]
	path = append(path, node.Key())

	if _, ok := targets[strings.ToLower(node.Name)]; ok {
		*out = append(*out, append([]string(nil), path...))
	}
	for _, child := range node.Children {
		t.findPaths(child, path, targets, out)
	}
}

// Stats computes aggregate statistics for the tree. TransitiveCount counts
// node occurrences below the roots; TotalPackages counts distinct
// name@version pairs.
func (t *Tree) Stats() TreeStats {
	distinct := map[string]struct{}{}
	stats := TreeStats{DirectCount: len(t.Roots)}

	for _, node := range t.Nodes {
		distinct[node.Key()] = struct{}{}
		if node.Depth > 0 {
			stats.TransitiveCount++
			if node.Depth > stats.MaxDepth {
				stats.MaxDepth = node.Depth
			}
		}
	}
	stats.TotalPackages = len(distinct)
	return stats
}

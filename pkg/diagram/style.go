package diagram

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

// =============================================================================
// Layout
// =============================================================================

// Layout is the overall rank direction of a diagram.
type Layout int

const (
	// LeftToRight ranks nodes from left to right (Graphviz rankdir=LR).
	LeftToRight Layout = iota
	// TopToBottom ranks nodes from top to bottom (Graphviz rankdir=TB).
	TopToBottom
)

// RankDir returns the Graphviz rankdir value.
func (l Layout) RankDir() string {
	if l == TopToBottom {
		return "TB"
	}
	return "LR"
}

func (l Layout) String() string { return l.RankDir() }

// =============================================================================
// Edge direction
// =============================================================================

// EdgeDirection says which end of an edge carries the arrowhead.
type EdgeDirection int

const (
	// Directed draws an arrow at the target.
	Directed EdgeDirection = iota
	// ReverseDirected keeps source and target in place for layout but draws
	// the arrow at the source.
	ReverseDirected
	// Undirected draws no arrowheads.
	Undirected
)

func (d EdgeDirection) String() string {
	switch d {
	case Directed:
		return "directed"
	case ReverseDirected:
		return "reverse-directed"
	case Undirected:
		return "undirected"
	}
	return "EdgeDirection(" + strconv.Itoa(int(d)) + ")"
}

func (d EdgeDirection) valid() bool {
	return d >= Directed && d <= Undirected
}

// =============================================================================
// Categories
// =============================================================================

// Category is the semantic type of a node: the service icon it stands for.
type Category string

// Node categories used by the MLOps diagrams.
const (
	CategoryIAMRole             Category = "iam-role"
	CategoryCloudFormation      Category = "cloudformation"
	CategoryCFNTemplate         Category = "cloudformation-template"
	CategoryCFNStack            Category = "cloudformation-stack"
	CategoryS3Bucket            Category = "s3"
	CategoryS3BucketWithObjects Category = "s3-objects"
	CategoryKMS                 Category = "kms"
	CategoryParameterStore      Category = "parameter-store"
	CategoryServiceCatalog      Category = "service-catalog"
	CategorySageMaker           Category = "sagemaker"
	CategoryCodeBuild           Category = "codebuild"
	CategoryCodeCommit          Category = "codecommit"
	CategoryCodePipeline        Category = "codepipeline"
	CategoryCodeArtifact        Category = "codeartifact"
	CategoryECR                 Category = "ecr"
	CategoryLambda              Category = "lambda"
	CategoryVPCEndpoint         Category = "vpc-endpoint"
	CategoryBlank               Category = "blank"
	CategoryPoint               Category = "point"
)

var categories = []Category{
	CategoryIAMRole,
	CategoryCloudFormation,
	CategoryCFNTemplate,
	CategoryCFNStack,
	CategoryS3Bucket,
	CategoryS3BucketWithObjects,
	CategoryKMS,
	CategoryParameterStore,
	CategoryServiceCatalog,
	CategorySageMaker,
	CategoryCodeBuild,
	CategoryCodeCommit,
	CategoryCodePipeline,
	CategoryCodeArtifact,
	CategoryECR,
	CategoryLambda,
	CategoryVPCEndpoint,
	CategoryBlank,
	CategoryPoint,
}

// Categories returns all known node categories.
func Categories() []Category { return slices.Clone(categories) }

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return slices.Contains(categories, c) }

// HasIcon reports whether nodes of this category are drawn with an icon.
// Blank and point nodes are text or junction markers only.
func (c Category) HasIcon() bool {
	return c != CategoryBlank && c != CategoryPoint && c.Valid()
}

// =============================================================================
// Line styles and ports
// =============================================================================

// LineStyle is the stroke pattern of an edge or cluster border.
// The zero value is solid.
type LineStyle string

const (
	Solid  LineStyle = ""
	Dashed LineStyle = "dashed"
	Dotted LineStyle = "dotted"
)

func (s LineStyle) valid() bool {
	return s == Solid || s == Dashed || s == Dotted
}

// Port is a Graphviz compass point an edge attaches to.
type Port string

const (
	PortNone   Port = ""
	PortNorth  Port = "n"
	PortNE     Port = "ne"
	PortEast   Port = "e"
	PortSE     Port = "se"
	PortSouth  Port = "s"
	PortSW     Port = "sw"
	PortWest   Port = "w"
	PortNW     Port = "nw"
	PortCenter Port = "c"
)

func (p Port) valid() bool {
	switch p {
	case PortNone, PortNorth, PortNE, PortEast, PortSE, PortSouth, PortSW, PortWest, PortNW, PortCenter:
		return true
	}
	return false
}

// =============================================================================
// Node style
// =============================================================================

// LabelLoc is the vertical placement of a node label.
type LabelLoc string

const (
	LabelDefault LabelLoc = ""
	LabelTop     LabelLoc = "t"
	LabelCenter  LabelLoc = "c"
	LabelBottom  LabelLoc = "b"
)

// NodeStyle overrides the size and label placement of a single node.
// Zero fields keep the renderer defaults.
type NodeStyle struct {
	Margin   float64  // inner margin in inches
	Height   float64  // in inches
	Width    float64  // in inches
	LabelLoc LabelLoc // label placement
}

// Validate rejects negative sizes and unknown label placements.
func (s NodeStyle) Validate() error {
	if s.Margin < 0 || s.Height < 0 || s.Width < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "node style sizes must not be negative: %+v", s)
	}
	switch s.LabelLoc {
	case LabelDefault, LabelTop, LabelCenter, LabelBottom:
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown label location %q", s.LabelLoc)
	}
	return nil
}

// =============================================================================
// Edge attributes
// =============================================================================

// LayoutHints steer the layout engine for one edge.
type LayoutHints struct {
	MinLen   int  // minimum rank distance, 0 = engine default
	HeadPort Port // compass point on the target
	TailPort Port // compass point on the source
}

// EdgeAttrs are the labels and styling of an edge.
type EdgeAttrs struct {
	Label        string    // forward label, drawn along the edge
	XLabel       string    // external label, placed outside the edge path
	ReverseLabel string    // label drawn at the source end
	Style        LineStyle // stroke pattern
	PenWidth     float64   // stroke width, 0 = default
	Color        string    // stroke colour, "" = default
	Hints        LayoutHints
}

// Validate rejects unknown styles, ports and negative sizes.
func (a EdgeAttrs) Validate() error {
	if !a.Style.valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown edge style %q", a.Style)
	}
	if a.PenWidth < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "edge pen width must not be negative: %v", a.PenWidth)
	}
	if a.Hints.MinLen < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "edge minlen must not be negative: %d", a.Hints.MinLen)
	}
	if !a.Hints.HeadPort.valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown head port %q", a.Hints.HeadPort)
	}
	if !a.Hints.TailPort.valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown tail port %q", a.Hints.TailPort)
	}
	return nil
}

// Labels returns the non-empty labels of a in display order.
func (a EdgeAttrs) Labels() []string {
	var out []string
	for _, l := range []string{a.Label, a.XLabel, a.ReverseLabel} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// =============================================================================
// Cluster style
// =============================================================================

// ClusterStyle is the look of a cluster's bounding region.
// Empty fields keep the depth-based defaults of the renderer.
type ClusterStyle struct {
	FontColor string
	PenColor  string
	BgColor   string // "none" or "transparent" disables the fill
	Line      LineStyle
}

// Validate rejects unknown border styles.
func (s ClusterStyle) Validate() error {
	if !s.Line.valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown cluster border style %q", s.Line)
	}
	return nil
}

// ConsoleStyle is the red dashed frame used for "AWS Management Console"
// groupings.
func ConsoleStyle() ClusterStyle {
	return ClusterStyle{
		FontColor: "red",
		PenColor:  "red",
		BgColor:   "none",
		Line:      Dashed,
	}
}

// TransparentStyle keeps the default border with no background fill.
func TransparentStyle() ClusterStyle {
	return ClusterStyle{BgColor: "transparent"}
}

// =============================================================================
// Graph attributes
// =============================================================================

// GraphAttrs are the global layout attributes of a diagram.
type GraphAttrs struct {
	Splines  string  // edge routing: polyline, ortho, spline, curved, line, none
	NodeSep  float64 // inches between nodes of one rank
	RankSep  float64 // inches between ranks
	Pad      float64 // inches of padding around the drawing
	FontName string
	FontSize float64
	BgColor  string
}

var validSplines = []string{"none", "line", "polyline", "curved", "ortho", "spline", "true", "false"}

// DefaultGraphAttrs returns the attributes every diagram starts from.
func DefaultGraphAttrs() GraphAttrs {
	return GraphAttrs{
		Splines:  "polyline",
		NodeSep:  0.60,
		RankSep:  0.75,
		Pad:      2.0,
		FontName: "Sans-Serif",
		FontSize: 15,
	}
}

// Validate rejects unknown routing modes and negative sizes.
func (a GraphAttrs) Validate() error {
	if a.Splines != "" && !slices.Contains(validSplines, a.Splines) {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown splines mode %q (must be one of: %s)",
			a.Splines, strings.Join(validSplines, ", "))
	}
	if a.NodeSep < 0 || a.RankSep < 0 || a.Pad < 0 || a.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "graph sizes must not be negative: %+v", a)
	}
	return nil
}

// graphAttrSetters maps the recognised keys of [GraphAttrs.With].
var graphAttrSetters = map[string]func(*GraphAttrs, string) error{
	"splines":  func(a *GraphAttrs, v string) error { a.Splines = v; return nil },
	"nodesep":  floatSetter(func(a *GraphAttrs, f float64) { a.NodeSep = f }),
	"ranksep":  floatSetter(func(a *GraphAttrs, f float64) { a.RankSep = f }),
	"pad":      floatSetter(func(a *GraphAttrs, f float64) { a.Pad = f }),
	"fontname": func(a *GraphAttrs, v string) error { a.FontName = v; return nil },
	"fontsize": floatSetter(func(a *GraphAttrs, f float64) { a.FontSize = f }),
	"bgcolor":  func(a *GraphAttrs, v string) error { a.BgColor = v; return nil },
}

func floatSetter(set func(*GraphAttrs, float64)) func(*GraphAttrs, string) error {
	return func(a *GraphAttrs, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		set(a, f)
		return nil
	}
}

// GraphAttrKeys returns the keys accepted by [GraphAttrs.With], sorted.
func GraphAttrKeys() []string {
	return slices.Sorted(maps.Keys(graphAttrSetters))
}

// With returns a copy of a with overrides applied. Keys are matched
// case-insensitively; unknown keys and unparsable values are rejected
// rather than ignored.
func (a GraphAttrs) With(overrides map[string]string) (GraphAttrs, error) {
	out := a
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		set, ok := graphAttrSetters[strings.ToLower(k)]
		if !ok {
			return a, errors.New(errors.ErrCodeInvalidStyle, "unknown graph attribute %q (must be one of: %s)",
				k, strings.Join(GraphAttrKeys(), ", "))
		}
		if err := set(&out, overrides[k]); err != nil {
			return a, errors.Wrap(errors.ErrCodeInvalidStyle, err, "graph attribute %q", k)
		}
	}
	if err := out.Validate(); err != nil {
		return a, err
	}
	return out, nil
}

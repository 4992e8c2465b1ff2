package render

import (
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
)

// Palette of the default theme.
const (
	colorText       = "#2D3436"
	colorEdge       = "#7B8894"
	colorClusterPen = "#AEB6BE"
	defaultFont     = "Sans-Serif"
)

// clusterBackgrounds alternate with nesting depth.
var clusterBackgrounds = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

// clusterBackground returns the fill for a cluster at depth (1-based).
func clusterBackground(depth int) string {
	if depth < 1 {
		depth = 1
	}
	return clusterBackgrounds[(depth-1)%len(clusterBackgrounds)]
}

// categoryTheme is how a category is drawn when no icon set is configured.
type categoryTheme struct {
	Shape string
	Fill  string
}

// AWS service-group colours.
const (
	fillSecurity   = "#DD344C"
	fillManagement = "#E7157B"
	fillStorage    = "#7AA116"
	fillML         = "#01A88D"
	fillDevTools   = "#C925D1"
	fillCompute    = "#ED7100"
	fillNetwork    = "#8C4FFF"
)

var categoryThemes = map[diagram.Category]categoryTheme{
	diagram.CategoryIAMRole:             {Shape: "box", Fill: fillSecurity},
	diagram.CategoryKMS:                 {Shape: "box", Fill: fillSecurity},
	diagram.CategoryCloudFormation:      {Shape: "box", Fill: fillManagement},
	diagram.CategoryCFNTemplate:         {Shape: "note", Fill: fillManagement},
	diagram.CategoryCFNStack:            {Shape: "box3d", Fill: fillManagement},
	diagram.CategoryParameterStore:      {Shape: "box", Fill: fillManagement},
	diagram.CategoryServiceCatalog:      {Shape: "tab", Fill: fillManagement},
	diagram.CategoryS3Bucket:            {Shape: "cylinder", Fill: fillStorage},
	diagram.CategoryS3BucketWithObjects: {Shape: "cylinder", Fill: fillStorage},
	diagram.CategorySageMaker:           {Shape: "box", Fill: fillML},
	diagram.CategoryCodeBuild:           {Shape: "component", Fill: fillDevTools},
	diagram.CategoryCodeCommit:          {Shape: "folder", Fill: fillDevTools},
	diagram.CategoryCodePipeline:        {Shape: "cds", Fill: fillDevTools},
	diagram.CategoryCodeArtifact:        {Shape: "box", Fill: fillDevTools},
	diagram.CategoryECR:                 {Shape: "box3d", Fill: fillCompute},
	diagram.CategoryLambda:              {Shape: "hexagon", Fill: fillCompute},
	diagram.CategoryVPCEndpoint:         {Shape: "octagon", Fill: fillNetwork},
}

// themeFor returns the shape and fill for c, falling back to a grey box.
func themeFor(c diagram.Category) categoryTheme {
	if t, ok := categoryThemes[c]; ok {
		return t
	}
	return categoryTheme{Shape: "box", Fill: colorEdge}
}

// Node geometry, in inches.
const (
	iconNodeWidth   = 1.4
	iconNodeHeight  = 1.9
	iconLinePadding = 0.4
	pointSize       = 0.075
)

package mlops

import (
	"slices"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// DefaultDir is the directory the documentation diagrams are written to,
// relative to the output directory.
const DefaultDir = "images/component_reference"

// BuildFunc builds one diagram that renders to target.
type BuildFunc func(target output.Target) (*diagram.Diagram, error)

// Builder is a registered diagram.
type Builder struct {
	Name  string    // registry name, e.g. "overview" or "a"
	Title string    // one-line description
	Path  string    // default output path including extension
	Build BuildFunc // constructs the diagram
}

// Target resolves the builder's default output path.
func (b Builder) Target() (output.Target, error) {
	if err := errors.ValidateOutputPath(b.Path); err != nil {
		return output.Target{}, err
	}
	return output.Resolve(b.Path)
}

var builders = []Builder{
	{"overview", "Overall architecture", DefaultDir + "/overall_architecture.png", Overview},
	{"a", "Use case A: deploy the initial infrastructure", DefaultDir + "/A_deploy_infrastructure.png", UseCaseA},
	{"b", "Use case B: create a SageMaker project", DefaultDir + "/B_create_sagemaker_project.png", UseCaseB},
	{"c", "Use case C: create a project user", DefaultDir + "/C_create_user.png", UseCaseC},
	{"d", "Use case D: develop a model in SageMaker Studio", DefaultDir + "/D_launch_sm_studio.png", UseCaseD},
	{"e", "Use case E: trigger the model build", DefaultDir + "/E_training.png", UseCaseE},
	{"f", "Use case F: approve the model deployment", DefaultDir + "/F_approve_deployment.png", UseCaseF},
	{"g", "Use case G: monitor the model performance", DefaultDir + "/G_monitor_performance.png", UseCaseG},
}

// Builders returns every registered diagram in render order: the overview
// followed by use cases A to G.
func Builders() []Builder {
	return slices.Clone(builders)
}

// Names returns the registry names in render order.
func Names() []string {
	names := make([]string, len(builders))
	for i, b := range builders {
		names[i] = b.Name
	}
	return names
}

// Lookup finds a builder by name.
func Lookup(name string) (Builder, error) {
	for _, b := range builders {
		if b.Name == name {
			return b, nil
		}
	}
	return Builder{}, errors.New(errors.ErrCodeNotFound, "unknown diagram %q (available: %v)", name, Names())
}

package mlops

import (
	"strings"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// AccountID is the placeholder printed wherever a diagram names the AWS
// account.
const AccountID = "<ACCOUNT_ID>"

// infraResources are the services reachable through the platform's VPC
// endpoints.
var infraResources = []string{
	"S3",
	"KMS",
	"SageMaker API",
	"SageMaker Runtime",
	"SageMaker Feature Store Runtime",
	"SageMaker Studio",
	"CodeCommit",
	"CodePipeline",
	"CodeArtifact",
	"SSM",
	"Service Catalog",
	"CloudWatch",
	"EC2",
	"STS",
	"ECR",
}

// Overview draws the whole platform: the infrastructure stack with its VPC,
// the Studio domain with two projects, the per-project resources and how
// each use case enters the picture.
func Overview(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("overview", "", target)

	projectAdmin := b.node("ProjectAdmin", diagram.CategoryIAMRole)
	dsAdmin := b.node("DataScienceAdmin", diagram.CategoryIAMRole)
	dataScientist := b.node("DataScientist", diagram.CategoryIAMRole)
	infraTemplate := b.node("1-infra.yaml", diagram.CategoryCFNTemplate)

	var (
		dsAdminApp, proj1, proj2 *diagram.Node
		user1App, user2App       *diagram.Node
		vpcEndpoints, resources  *diagram.Node
	)

	b.within("mlops-infra-stack\naccount id: "+AccountID, diagram.TransparentStyle(), func() {
		b.within("VPC", diagram.ClusterStyle{}, func() {
			b.within("PrivateSubnet1 & PrivateSubnet2", diagram.ClusterStyle{}, func() {
				b.within("SecurityGroup", diagram.ClusterStyle{}, func() {
					b.within("StudioDomain", diagram.ClusterStyle{}, func() {
						b.node("StudioDomain", diagram.CategorySageMaker)
						dsAdminApp = b.node("ds-admin\n(App)", diagram.CategorySageMaker)

						b.within("project01", diagram.ClusterStyle{}, func() {
							proj1 = b.node("project01\nSageMaker\nStudio User\n(Product)", diagram.CategoryServiceCatalog)
							createUser := b.blank("(C) deploy user\nvia CloudFormation", noteStyle)
							user1App = b.node("user01-project01\n(App)", diagram.CategorySageMaker)
							user2App = b.node("user02-project01\n(App)", diagram.CategorySageMaker)

							b.line(proj1, createUser)
							b.to(createUser, diagram.Nodes(user1App, user2App))
						})

						b.within("project02", diagram.ClusterStyle{}, func() {
							proj2 = b.blank("...", noteStyle)
						})

						createProject := b.blank("(B) deploy project\n via CloudFormation", noteStyle)
						b.line(dsAdminApp, createProject)
						b.to(createProject, diagram.Nodes(proj1, proj2))
					})
				})

				b.within("VPCEndpointSecurityGroup", diagram.ClusterStyle{}, func() {
					vpcEndpoints = b.node("VPC Endpoints", diagram.CategoryVPCEndpoint)
				})

				b.within("Resources", diagram.ClusterStyle{}, func() {
					resources = b.blank(strings.Join(infraResources, "\n"), diagram.NodeStyle{
						Width:    3,
						Height:   3,
						LabelLoc: diagram.LabelCenter,
					})
				})
			})
		})

		artifacts := b.node("ArtifactsBucket", diagram.CategoryS3BucketWithObjects)
		b.line(artifacts, resources)
		b.to(dsAdmin, dsAdminApp, dashed("Use Case B:\nAs a Data Science Admin,\ncreate a SageMaker Project"))

		b.line(vpcEndpoints, resources, diagram.EdgeAttrs{PenWidth: 3})
		b.line(diagram.Nodes(user1App, user2App), vpcEndpoints, diagram.EdgeAttrs{PenWidth: 3})

		codeartifact := b.node("mlops-codeartifact-repository", diagram.CategoryCodeArtifact)
		b.line(codeartifact, resources, label("python\npackages\n(private)"))

		infraStack := b.node("mlops-infra-stack", diagram.CategoryCFNStack)
		b.to(projectAdmin, infraTemplate, dashed("Use Case A:\nAs a Full-Stack Developer,\ndeploy the initial infrastructure\nusing CloudFormation"))
		b.to(infraTemplate, infraStack)

		b.to(dsAdmin, proj1, dashed("Use Case C:\nAs a Data Science Admin,\nCreate a User of the\nproject for a Data Scientist"))
	})

	junction := b.node("", diagram.CategoryPoint, diagram.NodeStyle{Height: 0.05})
	useCase := diagram.NodeStyle{Height: 0.7}
	useCaseD := b.blank("Use Case D:\nAs a Data Scientist,\nUse the SageMaker Studio to\nstart model development", useCase)
	useCaseE := b.blank("Use Case E:\nAs a Data Scientist,\nTrigger the Model Building", useCase)
	useCaseF := b.blank("Use Case F:\nAs a Data Scientist,\nApprove the Model Deployment", useCase)
	useCaseG := b.blank("Use Case G:\nAs a Data Scientist,\nMonitor the Model Performance", useCase)

	useCases := diagram.Nodes(useCaseD, useCaseE, useCaseF, useCaseG)
	b.line(dataScientist, useCases, dashed(""))
	b.line(useCases, junction, dashed(""))
	b.to(junction, diagram.Nodes(user1App, user2App), dashed(""))

	var proj1Resources []*diagram.Node
	var pipeline *diagram.Node
	b.within("project01 Resources", diagram.ClusterStyle{}, func() {
		proj1Resources = append(proj1Resources,
			b.node("project01-"+AccountID, diagram.CategoryS3BucketWithObjects),
			b.node("alias: project01", diagram.CategoryKMS),
			b.node("/mlops/projects/project01/*", diagram.CategoryParameterStore),
		)
		codebuild := b.node("CodeBuild", diagram.CategoryCodeBuild)
		sagemaker := b.node("SageMaker", diagram.CategorySageMaker)
		pipeline = b.node("CodePipeline", diagram.CategoryCodePipeline)
		proj1Resources = append(proj1Resources, pipeline, codebuild, sagemaker)
	})

	b.to(useCaseF, pipeline, label("(F) Manually approve deployment\nvia AWS CodePipeline console"))

	var proj2Resources *diagram.Node
	b.within("project02 Resources", diagram.ClusterStyle{}, func() {
		proj2Resources = b.blank("...", noteStyle)
	})

	b.line(resources, append(diagram.Nodes(proj1Resources...), proj2Resources))

	return b.done()
}

package mlops

import (
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// console declares the management console cluster holding a single Studio
// node and returns that node.
func (b *builder) console() *diagram.Node {
	var studio *diagram.Node
	b.within(managementConsoleName, diagram.ConsoleStyle(), func() {
		studio = b.node("SageMaker\nStudio", diagram.CategorySageMaker)
	})
	return studio
}

// UseCaseD draws use case D: a data scientist develops a model in SageMaker
// Studio, launching processing, training, batch transform, endpoint and
// tuning jobs against the project bucket.
func UseCaseD(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("d", "D", target)

	bucket := b.node(projectBucketLabel+"\n(use-case B)", diagram.CategoryS3Bucket)
	repo := b.node(projectRepoLabel, diagram.CategoryCodeCommit)
	role := b.node("DataScientist", diagram.CategoryIAMRole)
	studio := b.console()

	processing := b.node("SageMaker\nProcessing", diagram.CategorySageMaker)
	training := b.node("SageMaker\nTraining", diagram.CategorySageMaker)
	batch := b.node("SageMaker\nBatch Transform", diagram.CategorySageMaker)
	endpoint := b.node("SageMaker\nEndpoint", diagram.CategorySageMaker)
	tuning := b.node("SageMaker\nHyperparameter\nTuning", diagram.CategorySageMaker)

	b.to(role, studio, label(b.step("open\nSageMaker\nstudio")))
	b.back(studio, repo, label(b.step("git clone\nmodel code")))

	b.to(studio, processing, xlabel(b.step("launch\nprocessing job")))
	b.back(processing, bucket, xlabel(b.step("load\nraw CSV(s)")))
	b.to(processing, bucket, xlabel(b.step("save\ntrain, test, val. CSVs")))

	b.to(studio, training, label(b.step("launch\ntraining job")))
	b.back(training, bucket, label(b.step("load\ntrain, val. CSVs")))
	b.to(training, bucket, label(b.step("save model")))

	b.to(studio, batch, label(b.step("launch\nbatch transform\njob")))
	b.back(batch, bucket, xlabel(b.step("load\ntest CSV(s)")))
	b.to(batch, bucket, diagram.EdgeAttrs{
		XLabel: b.step("save\nprediction CSV(s)"),
		Hints:  diagram.LayoutHints{MinLen: 3},
	})

	b.to(studio, endpoint, xlabel(b.step("deploy\nendpoint")))
	b.back(endpoint, bucket, xlabel(b.step("load model")))

	b.to(studio, tuning, label(b.step("launch\nhyperparameter\ntuning job")))
	b.back(tuning, bucket, xlabel(b.step("load model,\ntrain, val CSV(s)")))

	return b.done()
}

// UseCaseE draws use case E: a merged pull request triggers the model build
// pipeline, which pushes the container images and updates the SageMaker
// pipeline.
func UseCaseE(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("e", "E", target)

	role := b.node("DataScientist", diagram.CategoryIAMRole)
	projectRepo := b.node(projectRepoLabel, diagram.CategoryCodeCommit)
	platformRepo := b.node(platformRepoLabel, diagram.CategoryCodeCommit)
	sagemaker := b.node("Amazon\nSageMaker", diagram.CategorySageMaker)

	var studio *diagram.Node
	b.within(managementConsoleName, diagram.ConsoleStyle(), func() {
		studio = b.node("SageMaker\nStudio", diagram.CategorySageMaker)
		b.to(role, studio, label(b.step("log into\nSageMaker Studio\nvia AWS Management Console")))
		b.to(role, studio, label(b.step("modify\nmodel code")))
	})

	b.to(studio, projectRepo, label(b.step("create\npull request")))
	b.to(role, projectRepo, label(b.step("merge\npull request\nto main")))

	pipeline := b.node("ModelBuildPipeline\n{project_name}_build_pipeline\n(codepipeline)", diagram.CategoryCodePipeline)

	sourceStage := b.blank(b.step("Source stage"), markerStyle)
	b.line(diagram.Nodes(projectRepo, platformRepo), sourceStage, dashed(""))
	b.to(projectRepo, pipeline, dashed(b.step("trigger\nmodel build\npipeline")))
	b.to(sourceStage, pipeline, dashed(""))

	pushStage := b.blank(b.step("PushImages\nstage"), markerStyle)
	b.line(pipeline, pushStage, dashed(""))

	images := []string{"preprocessing", "transform", "training", "inference"}
	var builds, repos []*diagram.Node
	for _, img := range images {
		builds = append(builds, b.node("ImageBuildProject\npush_"+img+"\n(code-build-action)", diagram.CategoryCodeBuild))
	}
	for _, build := range builds {
		b.to(pushStage, build, dashed(b.step("action")))
	}
	for _, img := range images {
		repos = append(repos, b.node("{project_name}-repository\n-"+img+"\n(use-case A)\n(ecr-repository)", diagram.CategoryECR))
	}
	b.pairs(diagram.Nodes(builds...), diagram.Nodes(repos...), label("push container\nimage"))

	smStage := b.blank(b.step("SMPipeline\nstage"), markerStyle)
	smPipeline := b.node("SMPipelineProject\nsm_pipeline\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.line(pipeline, smStage)
	b.to(smStage, smPipeline, dashed(b.step("action")))
	b.to(smPipeline, sagemaker, label(b.step("create/update\nSageMaker pipeline\nw/ new model")))

	bucket := b.node(projectBucketLabel, diagram.CategoryS3Bucket)
	b.to(sagemaker, bucket, label(b.step("store\nmodel binary")))

	approval := b.blank(b.step("await approval\nfrom use-case F"), markerStyle)
	b.to(sagemaker, approval, dashed(""))

	return b.done()
}

// UseCaseF draws use case F: a data scientist approves the latest model
// and the deploy pipeline rolls it out to the staging and production
// stack sets, then deploys the model monitor.
func UseCaseF(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("f", "F", target)

	role := b.node("DataScientistRole", diagram.CategoryIAMRole)
	studio := b.console()
	platformRepo := b.node(platformRepoLabel, diagram.CategoryCodeCommit)

	b.to(role, studio, label(b.step("log into\nSageMaker Studio\nvia AWS Management Console")))
	b.to(role, studio, label(b.step("approve\nlatest model build")))

	pipeline := b.node("ModelDeployPipeline\n{project_name}_deploy_pipeline\n(codepipeline)", diagram.CategoryCodePipeline)
	b.to(studio, pipeline, dashed(b.step("trigger\npipeline")))

	sourceStage := b.blank(b.step("Source\nstage"), markerStyle)
	b.line(platformRepo, sourceStage, dashed(""))
	b.to(sourceStage, pipeline, dashed(""))

	buildStage := b.blank(b.step("BuildModel\nstage"), markerStyle)
	b.line(pipeline, buildStage, dashed(""))
	paramsStaging := b.node("EndpointParamsStageProject\nbuild_endpoint_params_staging\n(codebuild-action)", diagram.CategoryCodeBuild)
	paramsProd := b.node("EndpointParamsProdProject\nbuild_endpoint_params_prod\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.to(buildStage, paramsStaging, dashed(b.step("action")))
	b.to(buildStage, paramsProd, dashed(b.step("action")))

	stagingStage := b.blank(b.step("DeployStaging\nstage"), markerStyle)
	b.line(pipeline, stagingStage, dashed("action"))
	deployStaging := b.node("DeployStaging\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.to(stagingStage, deployStaging, dashed(b.step("action")))
	approve := b.node("ApproveDeployment\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.to(stagingStage, approve, dashed(b.step("action")))

	var stagingEndpoint, prodEndpoint *diagram.Node
	b.within("{project_name}-inference-stackset-staging StackSet", diagram.ClusterStyle{}, func() {
		stack := b.node("{project_name}-inference\n-stackset-staging\n(cfn-stack)", diagram.CategoryCFNStack)
		b.to(deployStaging, stack, label("deploy"))
		b.to(role, approve, dashed(b.step("manually\napprove deployment")))
		stagingEndpoint = b.node("SageMaker\nEndpoint\n(staging)", diagram.CategorySageMaker)
		b.to(stack, stagingEndpoint)
	})

	prodStage := b.blank(b.step("DeployProd stage"), markerStyle)
	deployProd := b.node("DeployProd\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.within("{project_name}-inference-stackset-prod StackSet", diagram.ClusterStyle{}, func() {
		b.line(pipeline, prodStage, dashed(""))
		b.line(prodStage, deployProd, dashed(b.step("action")))
		stack := b.node("{project_name}-inference\n-stackset-prod\n(cfn-stack)", diagram.CategoryCFNStack)
		b.to(deployProd, stack, label("deploy"))
		prodEndpoint = b.node("SageMaker\nEndpoint\n(prod)", diagram.CategorySageMaker)
		b.to(stack, prodEndpoint)
	})

	bucket := b.node(projectBucketLabel+"\n(use-case B)", diagram.CategoryS3Bucket)
	b.to(bucket, stagingEndpoint, label("staging\nmodel"))
	b.to(bucket, prodEndpoint, label("prod\nmodel"))

	monitorBuildStage := b.blank(b.step("BuildMonitor stage"), markerStyle)
	buildMonitor := b.node("BuildMonitor\nbuild_monitor_params\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.line(pipeline, monitorBuildStage, dashed(""))
	b.to(monitorBuildStage, buildMonitor, dashed(b.step("action")))

	monitorDeployStage := b.blank(b.step("DeployMonitor stage"), markerStyle)
	deployMonitor := b.node("DeployMonitor\nDeployModelMonitor\n(codebuild-action)", diagram.CategoryCodeBuild)
	b.line(pipeline, monitorDeployStage, dashed(""))
	b.to(monitorDeployStage, deployMonitor, dashed(b.step("action")))

	var monitor *diagram.Node
	b.within("{project_name}-monitor-stackset StackSet", diagram.ClusterStyle{}, func() {
		stack := b.node("{project_name}-monitor\n-stackset\n(cfn-stack)", diagram.CategoryCFNStack)
		monitor = b.node("SageMaker\nModel\nMonitor", diagram.CategorySageMaker)
		b.to(deployMonitor, stack, label("deploy"))
		b.to(stack, monitor, label("deploy"))
	})

	next := b.blank("to use-case G", markerStyle)
	b.to(monitor, next, dashed(""))

	return b.done()
}

// UseCaseG draws use case G: a data scientist simulates endpoint traffic
// from a notebook while an hourly processing job compares the captured
// data with the baseline.
func UseCaseG(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("g", "G", target)

	role := b.node("DataScientistRole", diagram.CategoryIAMRole)
	studio := b.console()

	notebook := b.node("SageMaker\nNotebook", diagram.CategorySageMaker)
	bucket := b.node("ProjectBucket", diagram.CategoryS3Bucket)
	endpoint := b.node("SageMaker\nEndpoint", diagram.CategorySageMaker)
	processing := b.node("SageMaker\nProcessing\n(Monitoring)", diagram.CategorySageMaker, diagram.NodeStyle{Margin: 20})

	task := diagram.NodeStyle{Height: 1, LabelLoc: diagram.LabelCenter}
	dataQuality := b.blank("monitor\ndata\nquality", task)
	modelQuality := b.blank("monitor\nmodel\nquality", task)
	biasDrift := b.blank("monitor\nbias\ndrift", task)
	attributionDrift := b.blank("monitor\nfeature\nattribution\ndrift", task)

	b.to(role, studio, label(b.step("open\nSageMaker\nStudio")))
	b.to(dataQuality, notebook, label(b.step("open\nSageMaker\nNotebook")))
	b.line(studio, diagram.Nodes(modelQuality, biasDrift, attributionDrift), diagram.EdgeAttrs{
		Label: "tbd\nin future\nrelease",
		Style: diagram.Dotted,
	})
	b.line(studio, dataQuality)

	b.to(bucket, notebook, label(b.step("load\ntest CSV(s)")))
	b.to(notebook, endpoint, diagram.EdgeAttrs{
		Label: b.step("simulate\nrequest\ntraffic"),
		Hints: diagram.LayoutHints{MinLen: 2},
	})
	b.back(notebook, endpoint, diagram.EdgeAttrs{
		Label: b.step("get\nresponses\n(predictions)"),
		Hints: diagram.LayoutHints{MinLen: 2},
	})
	b.to(endpoint, bucket, label(b.step("capture\nrequests,\nresponses")))

	baseline := b.blank("model & data\nquality baseline\nresults\n(from use-case E)", diagram.NodeStyle{LabelLoc: diagram.LabelCenter})
	b.to(baseline, bucket, diagram.EdgeAttrs{
		Style: diagram.Dashed,
		Hints: diagram.LayoutHints{HeadPort: diagram.PortNorth},
	})

	b.back(processing, bucket, label(b.step("load\ndata & model\nquality baseline\nresults")))
	b.to(processing, processing, diagram.EdgeAttrs{
		Label: b.step("hourly\nscheduled\ntask"),
		Hints: diagram.LayoutHints{HeadPort: diagram.PortWest, TailPort: diagram.PortWest},
	})
	b.back(processing, bucket, label(b.step("compare\ncaptured data\nw/ baseline results")))
	b.to(processing, bucket, label(b.step("save\nviolations\nreport")))
	b.back(notebook, bucket, label(b.step("load\nviolations\nreport")))

	return b.done()
}

package mlops

import (
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// Labels of resources that appear in more than one use case.
const (
	artifactsBucketLabel  = "ArtifactsBucket\n{account_id}-{region}-mlops-artifacts"
	platformRepoLabel     = "MlopsPlatformRepo\naws-enterprise-mlops-platform\n(use-case A)\n(codecommit)"
	projectRepoLabel      = "ProjectCommitRepository\n{project_name}-project-repo\n(use-case B)\n(codecommit)"
	projectBucketLabel    = "ProjectBucket\n{project_name}-{account_id}"
	managementConsoleName = "AWS Management Console"
)

// deployTarget is a codebuild action and the stack it deploys.
type deployTarget struct {
	action, stack *diagram.Node
}

// UseCaseA draws use case A: a full-stack developer deploys the initial
// infrastructure with the one-click mlops_entry_point.yaml template.
func UseCaseA(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("a", "A", target)

	role := b.node("FullStackDeveloper", diagram.CategoryIAMRole)
	template := b.node("mlops_entry_point.yaml", diagram.CategoryCFNTemplate)
	entryBucket := b.node("aws-enterprise-mlops-platform", diagram.CategoryS3Bucket)
	infraStack := b.node("deploy-infra-stack", diagram.CategoryCFNStack)
	adminRoleStack := b.node("stackset-admin-role", diagram.CategoryCFNStack)
	execRoleStack := b.node("stackset-execution-role", diagram.CategoryCFNStack)
	codeartifact := b.node("AWS CodeArtifact", diagram.CategoryCodeArtifact)
	tagLambdaStack := b.node("sm-tag-lambda-stack", diagram.CategoryCFNStack)
	scProjectStack := b.node("sc-project-stack", diagram.CategoryCFNStack)

	b.line(entryBucket, template)

	var cloudformation *diagram.Node
	b.within(managementConsoleName, diagram.ConsoleStyle(), func() {
		cloudformation = b.node("AWS CloudFormation", diagram.CategoryCloudFormation)
		b.to(template, cloudformation, xlabel("source"))
		b.to(role, cloudformation, label("use CloudFormation\nvia AWS Management Console"))
	})

	b.within("mlops_entry_point.yaml stack", diagram.ClusterStyle{}, func() {
		stack := b.node("mlops_entry_point.yaml\nstack", diagram.CategoryCFNStack)
		artifacts := b.node(artifactsBucketLabel, diagram.CategoryS3Bucket)
		b.node("ArtifactsBucketParam", diagram.CategoryParameterStore)
		b.node("InfraBranchNameParam", diagram.CategoryParameterStore)
		pipelineRole := b.node("CodePipelineServiceRole", diagram.CategoryIAMRole)
		pipeline := b.node("MLOpsPlatformDeployPipeline\nmlops_platform_deploy\n(codepipeline)", diagram.CategoryCodePipeline)
		platformRepo := b.node("MlopsPlatformRepo\naws-enterprise-mlops-platform\n(codecommit)", diagram.CategoryCodeCommit)
		initRepo := b.node("InitMlopsPlatformRepoProject\ninit_mlops_platform_repo\n(codebuild-action)", diagram.CategoryCodeBuild)
		modelRepo := b.node("ModelRepoProject\nbuild_base_model_repo\n(codebuild-action)", diagram.CategoryCodeBuild)

		deployInfra := b.node("deploy_infra\n(codebuild-action)", diagram.CategoryCodeBuild)
		deployAdminRole := b.node("deploy_stackset_admin_role\n(codebuild-action)", diagram.CategoryCodeBuild)
		deployExecRole := b.node("deploy_stackset_execution_role\n(codebuild-action)", diagram.CategoryCodeBuild)
		deployTagLambda := b.node("deploy_sm_tag_lambda\n(codebuild-action)", diagram.CategoryCodeBuild)
		deployProject := b.node("deploy_sc_supervised_learning_project\n(codebuild-action)", diagram.CategoryCodeBuild)
		buildCodeartifact := b.node("build_codeartifact\n(codebuild-action)", diagram.CategoryCodeBuild)

		b.to(cloudformation, stack, label(b.step("one-click\ndeploy")))
		b.to(entryBucket, platformRepo, diagram.EdgeAttrs{
			XLabel: b.step("init. repo w/\naws-enterprise-mlops-\nplatform-init.zip"),
			Style:  diagram.Solid,
		})
		b.to(stack, pipeline, label(b.step("start pipeline")))
		b.to(platformRepo, pipeline, label(b.step("source code\nfrom codecommit")))

		buildStage := b.blank(b.step("Build stage"), stageStyle)
		b.to(pipeline, pipelineRole, dashed("assume"))
		b.line(pipeline, buildStage)
		b.to(buildStage, initRepo, xlabel(b.step("action")))
		b.to(initRepo, platformRepo, label(b.step("git push\nseedcode to repo.")))
		b.to(buildStage, modelRepo, label(b.step("action")))
		b.to(modelRepo, artifacts, label(b.step("upload yaml\ntemplates,\nmodel_repo.zip,\nexperiments_lambdas.zip\nto s3")))

		deployStage := b.blank(b.step("Deploy stage"), stageStyle)
		parallel1 := b.blank(b.step("parallel\nactions"), stageStyle)
		parallel2 := b.blank(b.step("parallel\nactions"), stageStyle)
		b.line(pipeline, deployStage)
		b.line(deployStage, diagram.Nodes(parallel1, parallel2))

		for _, p := range []struct {
			stage *diagram.Node
			deployTarget
		}{
			{parallel1, deployTarget{deployInfra, infraStack}},
			{parallel1, deployTarget{deployAdminRole, adminRoleStack}},
			{parallel1, deployTarget{deployExecRole, execRoleStack}},
			{parallel2, deployTarget{deployTagLambda, tagLambdaStack}},
			{parallel2, deployTarget{deployProject, scProjectStack}},
		} {
			b.to(p.stage, p.action)
			b.to(p.action, p.stack, label("deploy"))
		}

		codeartifactStage := b.blank(b.step("Build_AWS_CodeArtifact\nstage"), stageStyle)
		b.line(pipeline, codeartifactStage)
		b.to(codeartifactStage, buildCodeartifact)
		b.to(buildCodeartifact, codeartifact, label(b.step("upload python\nlibraries")))
	})

	b.to(infraStack, codeartifact, dashed("create repo."))

	return b.done()
}

// UseCaseB draws use case B: a data science admin creates a SageMaker
// project, which deploys the project stack and runs its pipeline.
func UseCaseB(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("b", "B", target, diagram.WithLayout(diagram.TopToBottom))

	role := b.node("DataScienceAdmin", diagram.CategoryIAMRole)
	artifacts := b.node(artifactsBucketLabel, diagram.CategoryS3Bucket)
	artifactsSeed := b.node(artifactsBucketLabel, diagram.CategoryS3Bucket)
	sagemaker := b.node("Amazon\nSageMaker", diagram.CategorySageMaker)
	notifyLambda := b.node("studio-project-ready-notify\n(use-case A)", diagram.CategoryLambda)

	var domain, studio, catalog *diagram.Node
	b.within(managementConsoleName, diagram.ConsoleStyle(), func() {
		domain = b.node("SageMaker\nDomain", diagram.CategorySageMaker)
		studio = b.node("SageMaker\nStudio", diagram.CategorySageMaker)
		catalog = b.node("SageMaker\nProject\n(service-catalog-product)", diagram.CategoryServiceCatalog)
	})

	b.to(role, domain, label(b.step("open via aws\nmanagement console")))
	b.to(domain, studio, label(b.step("launch\n'SageMaker Project'\napp")))
	b.to(role, studio, label(b.step("create project")))
	b.to(studio, catalog, label(b.step("create project")))
	b.back(catalog, artifacts, label(b.step("load\n2-smproject_yaml")))

	platformRepo := b.node(platformRepoLabel, diagram.CategoryCodeCommit)

	catalogStack := b.node("{project_name}-service\n-catalog-stack\n(cfn-stack)", diagram.CategoryCFNStack)
	ecrStack := b.node("{project_name}-ecr\n-repo-stack\n(cfn-stack)", diagram.CategoryCFNStack)
	modelGroupStack := b.node("{project_name}-model\n-group-stack\n(cfn-stack)", diagram.CategoryCFNStack)
	stagingStack := b.node("{project_name}-inference\n-stackset-staging\n(cfn-stack)", diagram.CategoryCFNStack)
	prodStack := b.node("{project_name}-inference\n-stackset-prod\n(cfn-stack)", diagram.CategoryCFNStack)

	b.within("SC-{account_id}-pp-*- Stack", diagram.ClusterStyle{}, func() {
		projectStack := b.node("SC-{account_id}-pp-*\n(cfn-stack)", diagram.CategoryCFNStack)
		projectBucket := b.node(projectBucketLabel, diagram.CategoryS3Bucket)
		pipeline := b.node("ProjectPipeline\n{project_name}_project_pipeline\n(codepipeline)", diagram.CategoryCodePipeline)
		projectRepo := b.node("ProjectCommitRepository\n{project_name}-project-repo\n(codecommit)", diagram.CategoryCodeCommit)
		buildLCC := b.node("LifeCycleConfigProject\nbuild_lcc\n(codebuild-action)", diagram.CategoryCodeBuild)
		buildCFN := b.node("BuildCfnProject\nbuild_cfn\n(codebuild-action)", diagram.CategoryCodeBuild)

		b.to(catalog, projectStack, xlabel(b.step("deploy\n2-smproject.yaml")))
		b.to(artifactsSeed, projectRepo, label(b.step("init w/\nmodel_repo.zip")))
		b.back(pipeline, platformRepo, xlabel(b.step("Source stage")))

		// BuildCFN stage
		buildCFNStage := b.blank(b.step("BuildCFN stage"), stageStyle)
		b.line(pipeline, buildCFNStage)
		b.to(buildCFNStage, buildLCC, label(b.step("action")))
		b.to(buildLCC, projectBucket, label(b.step("upload\nextension.tar.gz")))
		b.to(buildLCC, studio, xlabel(b.step("create\nlifecycle config")))
		b.to(buildCFNStage, buildCFN, xlabel(b.step("action")))
		b.to(buildCFN, artifacts, xlabel(b.step("upload\ncustom 3-smuser.yaml")))

		// BuildParams stage
		buildParamsStage := b.blank(b.step("BuildParams stage"), stageStyle)
		modelGroupParams := b.node("ModelGroupsParamsProject\nbuild_model_group_params\n(codebuild-action)", diagram.CategoryCodeBuild)
		b.line(pipeline, buildParamsStage)
		b.to(buildParamsStage, modelGroupParams, label(b.step("action")))

		experiment := b.node("SMExperimentProject\ncreate_sm_experiment\n(codebuild-action)", diagram.CategoryCodeBuild)
		b.to(buildParamsStage, experiment, label(b.step("action")))
		b.to(experiment, sagemaker, label(b.step("create experiment")))

		// Deploy stage
		deployStage := b.blank(b.step("Deploy stage"), markerStyle)
		parallel := b.blank(b.step("parallel\nactions"), stageStyle)

		deploys := []deployTarget{
			{b.node("deploy_service_catalog\n(codebuild-action)", diagram.CategoryCodeBuild), catalogStack},
			{b.node("deploy_ecr\n(codebuild-action)", diagram.CategoryCodeBuild), ecrStack},
			{b.node("deploy_model_group\n(codebuild-action)", diagram.CategoryCodeBuild), modelGroupStack},
			{b.node("deploy_model_stackset_stage\n(codebuild-action)", diagram.CategoryCodeBuild), stagingStack},
			{b.node("deploy_model_stackset_prod\n(codebuild-action)", diagram.CategoryCodeBuild), prodStack},
		}
		notification := b.node("project_ready_notification\n(codebuild-action)", diagram.CategoryCodeBuild)

		b.line(pipeline, deployStage)
		b.line(deployStage, parallel)
		actions := make([]*diagram.Node, len(deploys))
		for i, t := range deploys {
			actions[i] = t.action
		}
		b.to(parallel, diagram.Nodes(actions...))
		for _, t := range deploys {
			b.to(t.action, t.stack, label("deploy"))
		}

		// Notify stage
		notifyStage := b.blank(b.step("Notify stage"), markerStyle)
		b.line(pipeline, notifyStage)
		b.to(notifyStage, notification, label("action"))
		b.to(notification, notifyLambda, label(b.step("trigger")))
	})

	return b.done()
}

// UseCaseC draws use case C: a data science admin provisions a Studio user
// for a project through the user service catalog product.
func UseCaseC(target output.Target) (*diagram.Diagram, error) {
	b := newBuilder("c", "C", target)

	role := b.node("DataScienceAdmin", diagram.CategoryIAMRole)
	platformRepo := b.node(platformRepoLabel, diagram.CategoryCodeCommit)

	var product *diagram.Node
	b.within(managementConsoleName, diagram.ConsoleStyle(), func() {
		product = b.node("{project_name}\nSageMaker\nStudio User\n(service-catalog-product)", diagram.CategoryServiceCatalog)
		b.to(role, product, label(b.step("create user")))
	})

	studioUser := b.node("SageMaker\nStudio\nUser", diagram.CategorySageMaker)
	studioDomain := b.node("SageMaker\nStudio\nDomain", diagram.CategorySageMaker)

	b.within("SC-{account_id}-pp-* Stack", diagram.ClusterStyle{}, func() {
		userStack := b.node("SageMaker Project\nUser Stack\nSC-{account_id}-pp-*\n(cfn-stack)", diagram.CategoryCFNStack)
		pipeline := b.node("UserLCCPipeline\n{project_name}_{user}_pipeline\n(codepipeline)", diagram.CategoryCodePipeline)

		b.to(product, userStack, label(b.step("deploy")))
		b.to(platformRepo, pipeline, xlabel(b.step("source stage")))
		b.to(userStack, pipeline, label("start\npipeline"))
		b.to(userStack, studioUser, label("deploy"))

		associate := b.node("UserLifeCycleConfigProject\nassociate_user_lifecycle\n(codebuild-action)", diagram.CategoryCodeBuild)
		b.to(pipeline, associate, label(b.step("CreateAssociation\nstage")))

		association := b.blank(b.step("associate\nuser w/ domain"), markerStyle)
		b.line(associate, association)
		b.to(association, diagram.Nodes(studioUser, studioDomain), dashed(""))
	})

	return b.done()
}

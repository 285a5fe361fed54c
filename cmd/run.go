package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"

	"github.com/jaeaeich/nbrun/internal/clients"
	"github.com/jaeaeich/nbrun/internal/cluster"
	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/executor"
	"github.com/jaeaeich/nbrun/internal/logger"
	"github.com/jaeaeich/nbrun/internal/runner"
	"github.com/jaeaeich/nbrun/internal/schema"
	"github.com/jaeaeich/nbrun/internal/staging"
)

type runFlags struct {
	profile       string
	steps         string
	skipSteps     string
	strategy      string
	manifest      string
	baseDir       string
	outputDir     string
	studentModel  string
	teacherModel  string
	namespace     string
	podName       string
	container     string
	serverURL     string
	serverToken   string
	dryRun        bool
	stopOnFailure bool
}

func handleRunCmd() {
	flags, err := parseRunFlags()
	if err != nil {
		logger.L.Error("error parsing flags", "error", err)
		os.Exit(1)
	}

	profile, err := runner.ProfileByName(flags.profile)
	if err != nil {
		logger.L.Error("unknown profile", "profile", flags.profile, "error", err)
		os.Exit(1)
	}
	if flags.studentModel != "" {
		profile.StudentModelName = flags.studentModel
	}
	if flags.teacherModel != "" {
		profile.TeacherModelName = flags.teacherModel
	}

	steps, err := selectSteps(flags)
	if err != nil {
		logger.L.Error("error selecting steps", "error", err)
		os.Exit(1)
	}
	if len(steps) == 0 {
		logger.L.Error("no steps selected")
		os.Exit(1)
	}

	if flags.dryRun {
		fmt.Printf("profile: %s (student=%s teacher=%s)\n", profile.Name, profile.StudentModelName, profile.TeacherModelName)
		fmt.Printf("strategy: %s\n", flags.strategy)
		for _, step := range steps {
			line := step.DisplayName()
			if step.RequiresGPU {
				line += " [gpu]"
			}
			fmt.Println(line)
		}
		return
	}

	ctx := context.Background()

	strategy, err := buildStrategy(ctx, flags, steps)
	if err != nil {
		logger.L.Error("error building strategy", "strategy", flags.strategy, "error", err)
		os.Exit(1)
	}

	r := &runner.Runner{
		Strategy:      strategy,
		Profile:       profile,
		Steps:         steps,
		BaseDir:       flags.baseDir,
		OutputDir:     flags.outputDir,
		StopOnFailure: flags.stopOnFailure,
	}

	report, err := r.Run(ctx)
	if err != nil {
		logger.L.Error("run failed", "error", err)
		os.Exit(1)
	}

	reportPath, err := report.Write(flags.outputDir)
	if err != nil {
		logger.L.Error("failed to write report", "error", err)
	} else {
		logger.L.Info("report written", "path", reportPath)
	}

	runID := uuid.NewString()
	saveReport(ctx, runID, report)
	stageArtifacts(ctx, runID, flags.outputDir)

	logger.L.Info("run finished",
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"duration", fmt.Sprintf("%.1fs", report.Summary.DurationSeconds),
	)

	if !report.Passed() {
		os.Exit(1)
	}
}

func parseRunFlags() (*runFlags, error) {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	flags := &runFlags{}

	runCmd.StringVar(&flags.profile, "profile", "minimal", "Test profile: minimal, standard or extended")
	runCmd.StringVar(&flags.steps, "steps", "", "Comma-separated step numbers to run (default all)")
	runCmd.StringVar(&flags.skipSteps, "skip-steps", "", "Comma-separated step numbers to skip")
	runCmd.StringVar(&flags.strategy, "strategy", "local", "Execution strategy: local, job, jupyter or remote")
	runCmd.StringVar(&flags.manifest, "manifest", "", "Path to a YAML step manifest (default built-in workflow)")
	runCmd.StringVar(&flags.baseDir, "base-dir", ".", "Directory notebook paths are relative to")
	runCmd.StringVar(&flags.outputDir, "output-dir", config.Cfg.Runner.OutputDir, "Directory for executed notebooks and the report")
	runCmd.StringVar(&flags.studentModel, "student-model", "", "Override the profile's student model")
	runCmd.StringVar(&flags.teacherModel, "teacher-model", "", "Override the profile's teacher model")
	runCmd.StringVar(&flags.namespace, "namespace", config.Cfg.Namespace, "Cluster namespace for job and remote strategies")
	runCmd.StringVar(&flags.podName, "pod", "", "Pod name for the remote strategy")
	runCmd.StringVar(&flags.container, "container", "", "Container name for the remote strategy")
	runCmd.StringVar(&flags.serverURL, "server-url", "", "Jupyter server URL for the jupyter strategy")
	runCmd.StringVar(&flags.serverToken, "server-token", "", "Jupyter server token for the jupyter strategy")
	runCmd.BoolVar(&flags.dryRun, "dry-run", false, "Print the selected steps without executing")
	runCmd.BoolVar(&flags.stopOnFailure, "stop-on-failure", true, "Stop the run after the first failed step")

	if err := runCmd.Parse(os.Args[2:]); err != nil {
		return nil, fmt.Errorf("error parsing run command: %w", err)
	}
	return flags, nil
}

func selectSteps(flags *runFlags) ([]runner.Step, error) {
	steps := runner.KnowledgeTuningSteps
	if flags.manifest != "" {
		loaded, err := runner.LoadManifest(flags.manifest)
		if err != nil {
			return nil, err
		}
		steps = loaded
	}

	include, err := runner.ParseStepNumbers(flags.steps)
	if err != nil {
		return nil, err
	}
	exclude, err := runner.ParseStepNumbers(flags.skipSteps)
	if err != nil {
		return nil, err
	}
	return runner.FilterSteps(steps, include, exclude), nil
}

// anyRequiresGPU reports whether any selected step needs an accelerator.
func anyRequiresGPU(steps []runner.Step) bool {
	for _, step := range steps {
		if step.RequiresGPU {
			return true
		}
	}
	return false
}

//nolint:ireturn // The strategy variant is selected at runtime.
func buildStrategy(ctx context.Context, flags *runFlags, steps []runner.Step) (executor.Strategy, error) {
	kind, err := executor.KindFromString(flags.strategy)
	if err != nil {
		return nil, err
	}

	switch kind {
	case executor.KindLocal:
		return executor.NewLocal(executor.LocalConfig{}), nil

	case executor.KindKubernetesJob:
		client, err := connectCluster(ctx)
		if err != nil {
			return nil, err
		}
		gpu := 0
		if anyRequiresGPU(steps) {
			gpu = 1
		}
		return executor.NewKubernetesJob(client.Clientset(), executor.JobConfig{
			Namespace:   flags.namespace,
			Image:       config.Cfg.Runner.Image,
			CPU:         config.Cfg.Runner.CPU,
			Memory:      config.Cfg.Runner.Memory,
			GPU:         gpu,
			GPUResource: config.Cfg.Runner.GPUResource,
		}), nil

	case executor.KindJupyterServer:
		return executor.NewJupyterServer(executor.JupyterConfig{
			ServerURL: flags.serverURL,
			Token:     flags.serverToken,
			VerifySSL: config.Cfg.VerifySSL,
		}), nil

	case executor.KindRemoteExec:
		if flags.podName == "" {
			return nil, fmt.Errorf("the remote strategy requires -pod")
		}
		client, err := connectCluster(ctx)
		if err != nil {
			return nil, err
		}
		return executor.NewRemoteExec(client, executor.RemoteConfig{
			Namespace: flags.namespace,
			PodName:   flags.podName,
			Container: flags.container,
		}), nil
	}

	return nil, fmt.Errorf("unhandled strategy kind %v", kind)
}

func connectCluster(ctx context.Context) (*cluster.Client, error) {
	cfg, err := cluster.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	client := cluster.New(cfg)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func saveReport(ctx context.Context, runID string, report *runner.Report) {
	if !config.Cfg.Mongo.Enabled {
		return
	}

	client, err := clients.NewMongoClient(ctx)
	if err != nil {
		logger.L.Error("failed to connect to mongo", "error", err)
		return
	}
	clients.DB = client
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			logger.L.Error("failed to disconnect from mongo", "error", disconnectErr)
		}
	}()

	doc := schema.NewReportCollection(runID, report)
	collection := client.Database(config.Cfg.Mongo.Database).Collection(config.Cfg.Mongo.ReportCollection)
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		logger.L.Error("failed to save report to database", "run_id", runID, "error", err)
		return
	}
	logger.L.Info("report saved to database", "run_id", runID)
}

func stageArtifacts(ctx context.Context, runID, outputDir string) {
	if config.Cfg.Staging.Type == "" {
		return
	}

	provider, err := staging.GetProvider()
	if err != nil {
		logger.L.Error("failed to get staging provider", "error", err)
		return
	}

	uri, err := provider.GetURI(runID)
	if err != nil {
		logger.L.Error("failed to get staging URI", "error", err)
		return
	}

	remotePath := path.Join(config.Cfg.Staging.Prefix, runID)
	if err := provider.UploadDir(ctx, outputDir, remotePath); err != nil {
		logger.L.Error("failed to stage artifacts", "error", err)
		return
	}
	logger.L.Info("artifacts staged", "uri", uri)
}

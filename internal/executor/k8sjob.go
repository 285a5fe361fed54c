package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/jaeaeich/nbrun/internal/logger"
)

// JobConfig configures the isolated Kubernetes job strategy.
type JobConfig struct {
	Namespace string
	Image     string
	CPU       string
	Memory    string
	// GPU is the number of accelerators to request; zero requests none.
	GPU int
	// GPUResource is the extended resource name. Defaults to nvidia.com/gpu.
	GPUResource string
	// PollInterval is how often job status is polled. Defaults to 5s.
	PollInterval time.Duration
}

// KubernetesJobStrategy executes notebooks in isolated cluster jobs.
// The cluster enforces the timeout server-side through the job's
// active deadline, so this is the only variant with real preemption.
type KubernetesJobStrategy struct {
	client kubernetes.Interface
	cfg    JobConfig
}

// NewKubernetesJob creates an isolated-job strategy on the given
// clientset.
func NewKubernetesJob(client kubernetes.Interface, cfg JobConfig) *KubernetesJobStrategy {
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	if cfg.Image == "" {
		cfg.Image = "quay.io/modh/odh-generic-data-science-notebook:v3-20241111"
	}
	if cfg.CPU == "" {
		cfg.CPU = "4"
	}
	if cfg.Memory == "" {
		cfg.Memory = "16Gi"
	}
	if cfg.GPUResource == "" {
		cfg.GPUResource = "nvidia.com/gpu"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &KubernetesJobStrategy{client: client, cfg: cfg}
}

// Name implements Strategy.
func (s *KubernetesJobStrategy) Name() string {
	return "kubernetes_job"
}

// Execute implements Strategy. The job is torn down unconditionally
// after the attempt, whatever the outcome.
func (s *KubernetesJobStrategy) Execute(ctx context.Context, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) Result {
	start := time.Now()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	jobName := fmt.Sprintf("nb-exec-%s", uuid.New().String()[:8])
	logger.L.Info("creating job", "strategy", s.Name(), "job", jobName, "notebook", notebookPath)

	job := s.buildJob(jobName, notebookPath, outputPath, parameters, timeout)

	_, err := s.client.BatchV1().Jobs(s.cfg.Namespace).Create(ctx, job, metav1.CreateOptions{})
	if err != nil {
		return Result{
			Status:          StatusFailed,
			NotebookPath:    notebookPath,
			DurationSeconds: elapsedSeconds(start),
			ErrorMessage:    fmt.Sprintf("failed to create job: %v", err),
		}
	}
	defer s.cleanupJob(jobName)

	result := s.waitForJob(ctx, jobName, timeout)
	result.NotebookPath = notebookPath
	if result.Succeeded() {
		result.OutputPath = outputPath
	}
	result.DurationSeconds = elapsedSeconds(start)
	result.Metrics = map[string]string{"job_name": jobName}

	return result
}

func (s *KubernetesJobStrategy) buildJob(jobName, notebookPath, outputPath string, parameters map[string]string, timeout time.Duration) *batchv1.Job {
	command := append([]string{"papermill"}, papermillArgs(notebookPath, outputPath, parameters)...)

	requests := corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse(s.cfg.CPU),
		corev1.ResourceMemory: resource.MustParse(s.cfg.Memory),
	}
	limits := corev1.ResourceList{
		corev1.ResourceCPU:    resource.MustParse(s.cfg.CPU),
		corev1.ResourceMemory: resource.MustParse(s.cfg.Memory),
	}
	if s.cfg.GPU > 0 {
		gpu := resource.MustParse(fmt.Sprintf("%d", s.cfg.GPU))
		requests[corev1.ResourceName(s.cfg.GPUResource)] = gpu
		limits[corev1.ResourceName(s.cfg.GPUResource)] = gpu
	}

	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: s.cfg.Namespace,
			Labels: map[string]string{
				"app":             "nbrun",
				"nbrun/component": "notebook-executor",
			},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: func() *int32 {
				backoffLimit := int32(0)
				return &backoffLimit
			}(),
			ActiveDeadlineSeconds: func() *int64 {
				deadline := int64(timeout / time.Second)
				return &deadline
			}(),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:    "notebook-executor",
							Image:   s.cfg.Image,
							Command: []string{"sh", "-c", strings.Join(command, " ")},
							Resources: corev1.ResourceRequirements{
								Requests: requests,
								Limits:   limits,
							},
						},
					},
				},
			},
		},
	}
}

// waitForJob polls the job until it reaches a terminal state or the
// timeout elapses. Poll exhaustion without a terminal state is a
// timeout.
func (s *KubernetesJobStrategy) waitForJob(ctx context.Context, jobName string, timeout time.Duration) Result {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		job, err := s.client.BatchV1().Jobs(s.cfg.Namespace).Get(ctx, jobName, metav1.GetOptions{})
		if err != nil {
			return Result{
				Status:       StatusFailed,
				ErrorMessage: fmt.Sprintf("failed to read job %s: %v", jobName, err),
			}
		}

		if job.Status.Succeeded > 0 {
			return Result{Status: StatusSuccess}
		}
		if job.Status.Failed > 0 {
			return Result{
				Status:       StatusFailed,
				ErrorMessage: fmt.Sprintf("job %s failed", jobName),
			}
		}

		select {
		case <-ctx.Done():
			return Result{
				Status:       StatusFailed,
				ErrorMessage: fmt.Sprintf("wait for job %s cancelled: %v", jobName, ctx.Err()),
			}
		case <-time.After(s.cfg.PollInterval):
		}
	}

	return Result{
		Status:       StatusTimeout,
		ErrorMessage: fmt.Sprintf("job timed out after %s", timeout),
	}
}

// cleanupJob deletes the job and its pods. The execute context may
// already be done by the time cleanup runs, so a fresh one is used.
func (s *KubernetesJobStrategy) cleanupJob(jobName string) {
	propagation := metav1.DeletePropagationBackground
	err := s.client.BatchV1().Jobs(s.cfg.Namespace).Delete(context.Background(), jobName, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil {
		logger.L.Warn("failed to cleanup job", "job", jobName, "error", err)
	}
}

package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func jobWithStatus(name, namespace string, status batchv1.JobStatus) *batchv1.Job {
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Status:     status,
	}
}

// jobStatusReactor makes every job read come back with the given status.
func jobStatusReactor(client *fake.Clientset, status batchv1.JobStatus) {
	client.PrependReactor("get", "jobs", func(action k8stesting.Action) (bool, runtime.Object, error) {
		get := action.(k8stesting.GetAction)
		return true, jobWithStatus(get.GetName(), get.GetNamespace(), status), nil
	})
}

func countActions(client *fake.Clientset, verb, resource string) int {
	n := 0
	for _, action := range client.Actions() {
		if action.GetVerb() == verb && action.GetResource().Resource == resource {
			n++
		}
	}
	return n
}

func TestKubernetesJobExecuteSuccess(t *testing.T) {
	client := fake.NewSimpleClientset()
	jobStatusReactor(client, batchv1.JobStatus{Succeeded: 1})

	s := NewKubernetesJob(client, JobConfig{Namespace: "test-ns", PollInterval: 10 * time.Millisecond})
	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "nb.ipynb", result.NotebookPath)
	assert.Equal(t, "out.ipynb", result.OutputPath)
	require.Contains(t, result.Metrics, "job_name")
	assert.Contains(t, result.Metrics["job_name"], "nb-exec-")

	assert.Equal(t, 1, countActions(client, "create", "jobs"))
	assert.Equal(t, 1, countActions(client, "delete", "jobs"))
}

func TestKubernetesJobExecuteFailure(t *testing.T) {
	client := fake.NewSimpleClientset()
	jobStatusReactor(client, batchv1.JobStatus{Failed: 1})

	s := NewKubernetesJob(client, JobConfig{PollInterval: 10 * time.Millisecond})
	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "failed")
	assert.Empty(t, result.OutputPath)
	assert.Equal(t, 1, countActions(client, "delete", "jobs"))
}

func TestKubernetesJobExecuteTimeout(t *testing.T) {
	client := fake.NewSimpleClientset()
	jobStatusReactor(client, batchv1.JobStatus{Active: 1})

	s := NewKubernetesJob(client, JobConfig{PollInterval: 10 * time.Millisecond})
	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, 50*time.Millisecond)

	assert.Equal(t, StatusTimeout, result.Status)
	assert.Contains(t, result.ErrorMessage, "timed out")
	assert.Equal(t, 1, countActions(client, "delete", "jobs"), "job must be cleaned up after a timeout")
}

func TestKubernetesJobExecuteCreateError(t *testing.T) {
	client := fake.NewSimpleClientset()
	client.PrependReactor("create", "jobs", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, assert.AnError
	})

	s := NewKubernetesJob(client, JobConfig{PollInterval: 10 * time.Millisecond})
	result := s.Execute(context.Background(), "nb.ipynb", "out.ipynb", nil, time.Minute)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.ErrorMessage, "failed to create job")
	assert.Equal(t, 0, countActions(client, "delete", "jobs"))
}

func TestBuildJobSpec(t *testing.T) {
	s := NewKubernetesJob(fake.NewSimpleClientset(), JobConfig{
		Namespace: "proj",
		Image:     "custom:latest",
		CPU:       "2",
		Memory:    "4Gi",
		GPU:       1,
	})

	job := s.buildJob("nb-exec-abc12345", "nb.ipynb", "out.ipynb", map[string]string{"MAX_STEPS": "2"}, 10*time.Minute)

	assert.Equal(t, "proj", job.Namespace)
	assert.Equal(t, int32(0), *job.Spec.BackoffLimit)
	assert.Equal(t, int64(600), *job.Spec.ActiveDeadlineSeconds)

	container := job.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "custom:latest", container.Image)
	require.Len(t, container.Command, 3)
	assert.Contains(t, container.Command[2], "papermill nb.ipynb out.ipynb")
	assert.Contains(t, container.Command[2], "-p MAX_STEPS 2")

	gpu, ok := container.Resources.Limits["nvidia.com/gpu"]
	require.True(t, ok)
	assert.Equal(t, "1", gpu.String())
}

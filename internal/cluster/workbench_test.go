package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

// podListReactor makes every pod list return the given pods, bypassing
// the fake tracker's label selector handling.
func podListReactor(clientset *fake.Clientset, pods ...corev1.Pod) {
	clientset.PrependReactor("list", "pods", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, &corev1.PodList{Items: pods}, nil
	})
}

func workbenchPod(phase corev1.PodPhase) corev1.Pod {
	return corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "my-workbench-0",
			Namespace: "proj",
			Labels:    map[string]string{"notebook-name": "my-workbench"},
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func TestGetWorkbenchStatusPhases(t *testing.T) {
	tests := []struct {
		phase corev1.PodPhase
		want  WorkbenchStatus
	}{
		{corev1.PodRunning, WorkbenchRunning},
		{corev1.PodPending, WorkbenchPending},
		{corev1.PodFailed, WorkbenchFailed},
		{corev1.PodUnknown, WorkbenchFailed},
		{corev1.PodSucceeded, WorkbenchUnknown},
	}

	for _, tt := range tests {
		clientset := fake.NewSimpleClientset()
		podListReactor(clientset, workbenchPod(tt.phase))
		c := connectedClient(clientset)

		status := c.GetWorkbenchStatus(context.Background(), "my-workbench", "proj")
		assert.Equal(t, tt.want, status, "phase %s", tt.phase)
	}
}

func TestGetWorkbenchStatusNoPodsIsStopped(t *testing.T) {
	c := connectedClient(fake.NewSimpleClientset())

	status := c.GetWorkbenchStatus(context.Background(), "my-workbench", "proj")
	assert.Equal(t, WorkbenchStopped, status)
}

func TestGetWorkbenchStatusQueryFaultIsUnknown(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	clientset.PrependReactor("list", "pods", func(_ k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, assert.AnError
	})
	c := connectedClient(clientset)

	status := c.GetWorkbenchStatus(context.Background(), "my-workbench", "proj")
	assert.Equal(t, WorkbenchUnknown, status)
}

func TestGetWorkbenchStatusNotConnected(t *testing.T) {
	c := New(Config{APIURL: "https://api.test:6443", Token: "tok"})

	status := c.GetWorkbenchStatus(context.Background(), "my-workbench", "proj")
	assert.Equal(t, WorkbenchUnknown, status)
}

func TestNewWorkbenchSpecDefaults(t *testing.T) {
	spec := NewWorkbenchSpec("bench")

	assert.Equal(t, "bench", spec.Name)
	assert.Equal(t, "4", spec.CPU)
	assert.Equal(t, "16Gi", spec.Memory)
	assert.Equal(t, 0, spec.GPU)
	assert.Equal(t, "nvidia.com/gpu", spec.GPUType)
	assert.Equal(t, "50Gi", spec.StorageSize)
	assert.NotNil(t, spec.EnvVars)
}

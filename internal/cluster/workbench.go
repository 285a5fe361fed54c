package cluster

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// WorkbenchStatus is a snapshot of a workbench pod's phase. It is
// derived by polling, not a locally owned state machine.
type WorkbenchStatus string

const (
	// WorkbenchPending indicates the workbench pod is scheduled but not running.
	WorkbenchPending WorkbenchStatus = "pending"
	// WorkbenchRunning indicates the workbench pod is running.
	WorkbenchRunning WorkbenchStatus = "running"
	// WorkbenchStopped indicates no pod exists for the workbench.
	WorkbenchStopped WorkbenchStatus = "stopped"
	// WorkbenchFailed indicates the workbench pod failed.
	WorkbenchFailed WorkbenchStatus = "failed"
	// WorkbenchUnknown indicates the status could not be determined.
	WorkbenchUnknown WorkbenchStatus = "unknown"
)

// WorkbenchSpec describes a desired workbench execution environment.
type WorkbenchSpec struct {
	Name        string
	Image       string
	CPU         string
	Memory      string
	GPU         int
	GPUType     string
	StorageSize string
	EnvVars     map[string]string
}

// NewWorkbenchSpec creates a workbench spec with platform defaults.
func NewWorkbenchSpec(name string) WorkbenchSpec {
	return WorkbenchSpec{
		Name:        name,
		Image:       "quay.io/modh/odh-generic-data-science-notebook:v3-20241111",
		CPU:         "4",
		Memory:      "16Gi",
		GPU:         0,
		GPUType:     "nvidia.com/gpu",
		StorageSize: "50Gi",
		EnvVars:     map[string]string{},
	}
}

// GetWorkbenchStatus resolves a workbench's pod phase. Query faults are
// deliberately downgraded to WorkbenchUnknown rather than returned:
// status polling is advisory and must never abort a cleanup or
// monitoring loop.
func (c *Client) GetWorkbenchStatus(ctx context.Context, name, namespace string) WorkbenchStatus {
	if !c.connected {
		return WorkbenchUnknown
	}

	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("notebook-name=%s", name),
	})
	if err != nil {
		return WorkbenchUnknown
	}

	if len(pods.Items) == 0 {
		return WorkbenchStopped
	}

	switch pods.Items[0].Status.Phase {
	case corev1.PodRunning:
		return WorkbenchRunning
	case corev1.PodPending:
		return WorkbenchPending
	case corev1.PodFailed, corev1.PodUnknown:
		return WorkbenchFailed
	default:
		return WorkbenchUnknown
	}
}

// Package cluster provides the client for the target RHOAI cluster.
//
// The client is the single point of contact for all control-plane
// operations: namespace management, pod listing, in-pod exec and
// workbench status polling.
package cluster

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"

	"github.com/jaeaeich/nbrun/internal/config"
	"github.com/jaeaeich/nbrun/internal/errors"
	"github.com/jaeaeich/nbrun/internal/logger"
)

// Config holds the cluster connection parameters. It is immutable once
// constructed; the token is never persisted beyond process memory.
type Config struct {
	APIURL    string
	Token     string
	Namespace string
	VerifySSL bool
}

// ConfigFromEnv builds a Config from the loaded application
// configuration (RHOAI_API_URL, RHOAI_TOKEN, RHOAI_NAMESPACE,
// RHOAI_VERIFY_SSL).
func ConfigFromEnv() (Config, error) {
	if config.Cfg == nil {
		if err := config.Load(); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		APIURL:    config.Cfg.APIURL,
		Token:     config.Cfg.Token,
		Namespace: config.Cfg.Namespace,
		VerifySSL: config.Cfg.VerifySSL,
	}
	if cfg.APIURL == "" || cfg.Token == "" {
		return Config{}, errors.ErrMissingCredentials
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	return cfg, nil
}

// Info holds basic cluster information.
type Info struct {
	APIURL            string `json:"api_url"`
	KubernetesVersion string `json:"kubernetes_version"`
	Platform          string `json:"platform"`
	BuildDate         string `json:"build_date"`
}

// PodInfo is a simplified pod descriptor.
type PodInfo struct {
	Name    string            `json:"name"`
	Status  string            `json:"status"`
	Labels  map[string]string `json:"labels"`
	Created time.Time         `json:"created"`
}

// Client is the cluster client. All operations except Connect and
// Close require a prior successful Connect.
type Client struct {
	cfg       Config
	restCfg   *rest.Config
	clientset kubernetes.Interface
	connected bool
}

// New creates a new cluster client from the given configuration.
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Connect establishes an authenticated session against the cluster and
// verifies it by querying the server version. Calling it again
// re-authenticates.
func (c *Client) Connect(ctx context.Context) error {
	restCfg := &rest.Config{
		Host:        c.cfg.APIURL,
		BearerToken: c.cfg.Token,
		TLSClientConfig: rest.TLSClientConfig{
			Insecure: !c.cfg.VerifySSL,
		},
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConnection, err)
	}

	version, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConnection, err)
	}

	c.restCfg = restCfg
	c.clientset = clientset
	c.connected = true

	logger.L.Info("connected to cluster", "api_url", c.cfg.APIURL, "kubernetes_version", version.GitVersion)
	return nil
}

// IsConnected reports whether Connect has succeeded.
func (c *Client) IsConnected() bool {
	return c.connected
}

// Clientset exposes the underlying clientset for components that build
// their own resources, such as the Kubernetes job strategy.
func (c *Client) Clientset() kubernetes.Interface {
	return c.clientset
}

// Namespace returns the default namespace from the configuration.
func (c *Client) Namespace() string {
	return c.cfg.Namespace
}

// GetClusterInfo returns basic cluster information.
func (c *Client) GetClusterInfo(ctx context.Context) (Info, error) {
	if !c.connected {
		return Info{}, errors.ErrNotConnected
	}

	version, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return Info{}, fmt.Errorf("failed to get server version: %w", err)
	}

	return Info{
		APIURL:            c.cfg.APIURL,
		KubernetesVersion: version.GitVersion,
		Platform:          version.Platform,
		BuildDate:         version.BuildDate,
	}, nil
}

// ListNamespaces lists all accessible namespace names.
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	if !c.connected {
		return nil, errors.ErrNotConnected
	}

	namespaces, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}

	names := make([]string, 0, len(namespaces.Items))
	for _, ns := range namespaces.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

// NamespaceExists checks whether a namespace exists.
func (c *Client) NamespaceExists(ctx context.Context, name string) (bool, error) {
	if !c.connected {
		return false, errors.ErrNotConnected
	}

	_, err := c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get namespace %s: %w", name, err)
	}
	return true, nil
}

// CreateDataScienceProject creates a namespace carrying the RHOAI
// dashboard labels. An already existing project is treated as success.
func (c *Client) CreateDataScienceProject(ctx context.Context, name, displayName string) (string, error) {
	if !c.connected {
		return "", errors.ErrNotConnected
	}

	if displayName == "" {
		displayName = name
	}

	namespace := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				"opendatahub.io/dashboard": "true",
				"modelmesh-enabled":        "true",
			},
			Annotations: map[string]string{
				"openshift.io/display-name": displayName,
				"openshift.io/description":  fmt.Sprintf("Test project: %s", name),
			},
		},
	}

	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, namespace, metav1.CreateOptions{})
	if err != nil {
		if k8serrors.IsAlreadyExists(err) {
			logger.L.Info("data science project already exists", "name", name)
			return name, nil
		}
		return "", fmt.Errorf("failed to create namespace %s: %w", name, err)
	}

	logger.L.Info("created data science project", "name", name)
	return name, nil
}

// DeleteNamespace deletes a namespace. A missing namespace is treated
// as success.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	if !c.connected {
		return errors.ErrNotConnected
	}

	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}

	logger.L.Info("deleted namespace", "namespace", name)
	return nil
}

// ListPods lists pods in a namespace, optionally filtered by label
// selector.
func (c *Client) ListPods(ctx context.Context, namespace, labelSelector string) ([]PodInfo, error) {
	if !c.connected {
		return nil, errors.ErrNotConnected
	}

	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %s: %w", namespace, err)
	}

	infos := make([]PodInfo, 0, len(pods.Items))
	for _, pod := range pods.Items {
		labels := pod.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		infos = append(infos, PodInfo{
			Name:    pod.Name,
			Status:  string(pod.Status.Phase),
			Labels:  labels,
			Created: pod.CreationTimestamp.Time,
		})
	}
	return infos, nil
}

// ExecInPod runs a command inside a running pod and returns stdout,
// stderr and the command's exit code. The exit code is advisory: the
// exec transport only reports it for clean non-zero exits, so callers
// must not treat 0 as proof of success when err is non-nil.
func (c *Client) ExecInPod(ctx context.Context, podName, namespace, container string, command []string) (string, string, int, error) {
	if !c.connected {
		return "", "", -1, errors.ErrNotConnected
	}

	opts := &corev1.PodExecOptions{
		Command: command,
		Stdout:  true,
		Stderr:  true,
		Stdin:   false,
		TTY:     false,
	}
	if container != "" {
		opts.Container = container
	}

	req := c.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(podName).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(opts, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.restCfg, "POST", req.URL())
	if err != nil {
		return "", "", -1, fmt.Errorf("failed to create executor: %w", err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		var exitErr utilexec.CodeExitError
		if stderrors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.Code, nil
		}
		return stdout.String(), stderr.String(), -1, fmt.Errorf("exec in pod %s failed: %w", podName, err)
	}

	return stdout.String(), stderr.String(), 0, nil
}

// Cleanup deletes a namespace and, if wait is set, polls every two
// seconds until it is gone or the timeout expires. A timeout is logged
// rather than returned: cleanup is best effort.
func (c *Client) Cleanup(ctx context.Context, namespace string, wait bool, timeout time.Duration) error {
	if err := c.DeleteNamespace(ctx, namespace); err != nil {
		return err
	}

	if !wait {
		return nil
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		exists, err := c.NamespaceExists(ctx, namespace)
		if err == nil && !exists {
			logger.L.Info("namespace fully deleted", "namespace", namespace)
			return nil
		}
		select {
		case <-ctx.Done():
			logger.L.Warn("cleanup cancelled", "namespace", namespace, "error", ctx.Err())
			return nil
		case <-time.After(2 * time.Second):
		}
	}

	logger.L.Warn("timeout waiting for namespace deletion", "namespace", namespace, "timeout", timeout)
	return nil
}

// Close releases the connection handle. Safe to call multiple times.
func (c *Client) Close() {
	c.clientset = nil
	c.restCfg = nil
	c.connected = false
	logger.L.Info("closed cluster client connection")
}

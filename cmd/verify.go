package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jaeaeich/nbrun/internal/logger"
)

func handleVerifyCmd() {
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	namespace := verifyCmd.String("namespace", "", "Namespace to check for existence")
	workbench := verifyCmd.String("workbench", "", "Workbench name to report status for")
	timeout := verifyCmd.Duration("timeout", 30*time.Second, "Connection timeout")

	if err := verifyCmd.Parse(os.Args[2:]); err != nil {
		logger.L.Error("error parsing verify command", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := connectCluster(ctx)
	if err != nil {
		logger.L.Error("cluster verification failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	info, err := client.GetClusterInfo(ctx)
	if err != nil {
		logger.L.Error("failed to get cluster info", "error", err)
		os.Exit(1)
	}

	fmt.Printf("API URL:            %s\n", info.APIURL)
	fmt.Printf("Kubernetes version: %s\n", info.KubernetesVersion)
	fmt.Printf("Platform:           %s\n", info.Platform)
	fmt.Printf("Build date:         %s\n", info.BuildDate)

	namespaces, err := client.ListNamespaces(ctx)
	if err != nil {
		logger.L.Error("failed to list namespaces", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Accessible namespaces: %d\n", len(namespaces))

	if *namespace != "" {
		exists, err := client.NamespaceExists(ctx, *namespace)
		if err != nil {
			logger.L.Error("failed to check namespace", "namespace", *namespace, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Namespace %s exists: %v\n", *namespace, exists)
	}

	if *workbench != "" {
		status := client.GetWorkbenchStatus(ctx, *workbench, client.Namespace())
		fmt.Printf("Workbench %s status: %s\n", *workbench, status)
	}
}

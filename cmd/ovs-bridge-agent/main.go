package main

import (
	"os"

	"k8s.io/klog/v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

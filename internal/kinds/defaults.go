package kinds

// Group names used by the default table.
const (
	groupCore          = ""
	groupApps          = "apps"
	groupBatch         = "batch"
	groupPolicy        = "policy"
	groupAutoscaling   = "autoscaling"
	groupNetworking    = "networking.k8s.io"
	groupStorage       = "storage.k8s.io"
	groupRBAC          = "rbac.authorization.k8s.io"
	groupAPIExtensions = "apiextensions.k8s.io"
	groupAPIRegistry   = "apiregistration.k8s.io"
)

// defaultDescriptors is the supported kind table in dependency order.
var defaultDescriptors = []Descriptor{
	{Kind: "Namespace", Group: groupCore, Version: "v1", Resource: "namespaces"},
	{Kind: "NetworkPolicy", Group: groupNetworking, Version: "v1", Resource: "networkpolicies", Namespaced: true},
	{Kind: "ResourceQuota", Group: groupCore, Version: "v1", Resource: "resourcequotas", Namespaced: true},
	{Kind: "LimitRange", Group: groupCore, Version: "v1", Resource: "limitranges", Namespaced: true},
	{Kind: "PodDisruptionBudget", Group: groupPolicy, Version: "v1", Resource: "poddisruptionbudgets", Namespaced: true},
	{Kind: "ServiceAccount", Group: groupCore, Version: "v1", Resource: "serviceaccounts", Namespaced: true},
	{Kind: "Secret", Group: groupCore, Version: "v1", Resource: "secrets", Namespaced: true},
	{Kind: "SecretList", Group: groupCore, Version: "v1", ListOf: "Secret"},
	{Kind: "ConfigMap", Group: groupCore, Version: "v1", Resource: "configmaps", Namespaced: true},
	{Kind: "StorageClass", Group: groupStorage, Version: "v1", Resource: "storageclasses"},
	{Kind: "PersistentVolume", Group: groupCore, Version: "v1", Resource: "persistentvolumes"},
	{Kind: "PersistentVolumeClaim", Group: groupCore, Version: "v1", Resource: "persistentvolumeclaims", Namespaced: true},
	{Kind: "CustomResourceDefinition", Group: groupAPIExtensions, Version: "v1", Resource: "customresourcedefinitions"},
	{Kind: "ClusterRole", Group: groupRBAC, Version: "v1", Resource: "clusterroles"},
	{Kind: "ClusterRoleList", Group: groupRBAC, Version: "v1", ListOf: "ClusterRole"},
	{Kind: "ClusterRoleBinding", Group: groupRBAC, Version: "v1", Resource: "clusterrolebindings"},
	{Kind: "ClusterRoleBindingList", Group: groupRBAC, Version: "v1", ListOf: "ClusterRoleBinding"},
	{Kind: "Role", Group: groupRBAC, Version: "v1", Resource: "roles", Namespaced: true},
	{Kind: "RoleList", Group: groupRBAC, Version: "v1", ListOf: "Role"},
	{Kind: "RoleBinding", Group: groupRBAC, Version: "v1", Resource: "rolebindings", Namespaced: true},
	{Kind: "RoleBindingList", Group: groupRBAC, Version: "v1", ListOf: "RoleBinding"},
	{Kind: "Service", Group: groupCore, Version: "v1", Resource: "services", Namespaced: true},
	{Kind: "DaemonSet", Group: groupApps, Version: "v1", Resource: "daemonsets", Namespaced: true},
	{Kind: "Pod", Group: groupCore, Version: "v1", Resource: "pods", Namespaced: true},
	{Kind: "ReplicationController", Group: groupCore, Version: "v1", Resource: "replicationcontrollers", Namespaced: true},
	{Kind: "ReplicaSet", Group: groupApps, Version: "v1", Resource: "replicasets", Namespaced: true},
	{Kind: "Deployment", Group: groupApps, Version: "v1", Resource: "deployments", Namespaced: true},
	{Kind: "HorizontalPodAutoscaler", Group: groupAutoscaling, Version: "v2", Resource: "horizontalpodautoscalers", Namespaced: true},
	{Kind: "StatefulSet", Group: groupApps, Version: "v1", Resource: "statefulsets", Namespaced: true},
	{Kind: "Job", Group: groupBatch, Version: "v1", Resource: "jobs", Namespaced: true},
	{Kind: "CronJob", Group: groupBatch, Version: "v1", Resource: "cronjobs", Namespaced: true},
	{Kind: "Ingress", Group: groupNetworking, Version: "v1", Resource: "ingresses", Namespaced: true},
	{Kind: "APIService", Group: groupAPIRegistry, Version: "v1", Resource: "apiservices"},
}

var defaultRegistry = MustRegistry(defaultDescriptors)

// Default returns the built-in registry of supported kinds.
func Default() *Registry {
	return defaultRegistry
}

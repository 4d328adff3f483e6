// Package webapp is the built-in example package: a single HTTP service
// made of a Namespace, ConfigMap, ServiceAccount, Deployment and Service.
package webapp

package webapp

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/util/labels"
)

// Name is the package name used when the identity leaves it empty.
const Name = "webapp"

// Package renders a webapp instance.
type Package struct {
	id       pkgdef.Identity
	settings Settings
}

// New builds the package for id. Settings are defaulted and validated.
func New(id pkgdef.Identity, settings Settings) (*Package, error) {
	if id.Name == "" {
		id.Name = Name
	}
	id = id.WithDefaults()
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid webapp settings: %w", err)
	}
	return &Package{id: id, settings: settings}, nil
}

// Identity returns the instance identity.
func (p *Package) Identity() pkgdef.Identity {
	return p.id
}

// Render returns Namespace, ConfigMap, ServiceAccount, Deployment and
// Service, in that order. The Namespace is omitted when CreateNamespace is
// false.
func (p *Package) Render(ctx context.Context) (manifest.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var objects []runtime.Object
	if *p.settings.CreateNamespace {
		objects = append(objects, p.namespace())
	}
	objects = append(objects, p.configMap(), p.serviceAccount(), p.deployment(), p.service())

	seq := make(manifest.Sequence, 0, len(objects))
	for _, obj := range objects {
		u, err := toUnstructured(obj)
		if err != nil {
			return nil, err
		}
		seq = append(seq, u)
	}
	return seq, nil
}

func (p *Package) meta(name string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: p.id.Namespace,
		Labels:    p.id.Labels(),
	}
}

func (p *Package) configMapName() string {
	return p.id.Instance + "-config"
}

func (p *Package) selector() map[string]string {
	return map[string]string{
		labels.KeyName:     p.id.Name,
		labels.KeyInstance: p.id.Instance,
	}
}

func (p *Package) namespace() *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{Name: p.id.Namespace, Labels: p.id.Labels()},
	}
}

func (p *Package) configMap() *corev1.ConfigMap {
	return &corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: p.meta(p.configMapName()),
		Data:       p.settings.ConfigData,
	}
}

func (p *Package) serviceAccount() *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta:                     metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta:                   p.meta(p.id.Instance),
		AutomountServiceAccountToken: p.settings.AutomountServiceAccountToken,
	}
}

func (p *Package) deployment() *appsv1.Deployment {
	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{Path: healthPath, Port: intstr.FromString(portName)},
		},
		InitialDelaySeconds: 5,
		PeriodSeconds:       5,
		FailureThreshold:    3,
	}

	container := corev1.Container{
		Name:            p.id.Name,
		Image:           p.settings.Image,
		ImagePullPolicy: corev1.PullIfNotPresent,
		Args:            p.settings.Args,
		Ports: []corev1.ContainerPort{
			{Name: portName, ContainerPort: p.settings.Port, Protocol: corev1.ProtocolTCP},
		},
		LivenessProbe:  probe,
		ReadinessProbe: probe.DeepCopy(),
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("100m"),
				corev1.ResourceMemory: resource.MustParse("128Mi"),
			},
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("50m"),
				corev1.ResourceMemory: resource.MustParse("96Mi"),
			},
		},
	}

	var volumes []corev1.Volume
	if vm := p.settings.VolumeMount; vm != nil {
		container.VolumeMounts = []corev1.VolumeMount{{Name: vm.VolumeName, MountPath: vm.MountPath}}
		volumes = []corev1.Volume{{
			Name: vm.VolumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: p.configMapName()},
					Optional:             ptr.To(false),
				},
			},
		}}
	}

	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: p.meta(p.id.Instance),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(p.settings.Replicas),
			Selector: &metav1.LabelSelector{MatchLabels: p.selector()},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: p.id.Labels()},
				Spec: corev1.PodSpec{
					ServiceAccountName: p.id.Instance,
					Containers:         []corev1.Container{container},
					Volumes:            volumes,
				},
			},
		},
	}
}

func (p *Package) service() *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: p.meta(p.id.Instance),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: p.selector(),
			Ports: []corev1.ServicePort{{
				Name:       portName,
				Port:       p.settings.Port,
				Protocol:   corev1.ProtocolTCP,
				TargetPort: intstr.FromString(portName),
			}},
		},
	}
}

// toUnstructured converts a typed object and drops the fields a client
// must not send: status and the zero creation timestamp.
func toUnstructured(obj runtime.Object) (*unstructured.Unstructured, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %T: %w", obj, err)
	}
	u := &unstructured.Unstructured{Object: m}
	unstructured.RemoveNestedField(u.Object, "status")
	unstructured.RemoveNestedField(u.Object, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u.Object, "spec", "template", "metadata", "creationTimestamp")
	return u, nil
}

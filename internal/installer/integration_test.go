//go:build integration

package installer_test

import (
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/imamik/kpkg/internal/installer"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/pkgdef/webapp"
	"github.com/imamik/kpkg/internal/tracking"
)

var _ = Describe("Engine", func() {
	const (
		timeout  = time.Second * 10
		interval = time.Millisecond * 250
	)

	var (
		engine *installer.Engine
		id     pkgdef.Identity
		seq    int
	)

	newPackage := func(settings webapp.Settings) *webapp.Package {
		pkg, err := webapp.New(id, settings)
		Expect(err).NotTo(HaveOccurred())
		return pkg
	}

	refs := func(s manifest.Sequence) []string {
		out := make([]string, 0, len(s))
		for _, obj := range s {
			out = append(out, manifest.RefOf(obj).String())
		}
		return out
	}

	BeforeEach(func() {
		// Namespaces never finish terminating without controllers, so
		// every spec gets its own.
		seq++
		id = pkgdef.Identity{
			Name:      webapp.Name,
			Version:   "1.0.0",
			Instance:  "shop",
			Namespace: fmt.Sprintf("shop-%d-%d", GinkgoRandomSeed(), seq),
		}
		engine = newEngine()
	})

	Context("Install", func() {
		It("creates every resource and records them in order", func() {
			log := tracking.New()
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{}), log)).To(Succeed())

			Expect(log.Len()).To(Equal(5))
			kindsInOrder := make([]string, 0, log.Len())
			for _, obj := range log.Entries() {
				kindsInOrder = append(kindsInOrder, obj.GetKind())
				Expect(obj.GetUID()).NotTo(BeEmpty(), "log holds the server representation")
			}
			Expect(kindsInOrder).To(Equal([]string{"Namespace", "ConfigMap", "ServiceAccount", "Deployment", "Service"}))

			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Namespace: id.Namespace, Name: "shop"}, deployment)).To(Succeed())
			Expect(deployment.Labels).To(HaveKeyWithValue("app.kubernetes.io/instance", "shop"))
			Expect(deployment.Annotations).To(HaveKeyWithValue(installer.ApplyOrderAnnotation, "3"))
		})

		It("patches resources that already exist", func() {
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{}), tracking.New())).To(Succeed())

			log := tracking.New()
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{Replicas: 3}), log)).To(Succeed())
			Expect(log.Len()).To(Equal(5))

			Eventually(func() int32 {
				d := &appsv1.Deployment{}
				if err := k8sClient.Get(ctx, types.NamespacedName{Namespace: id.Namespace, Name: "shop"}, d); err != nil {
					return 0
				}
				return ptr.Deref(d.Spec.Replicas, 0)
			}, timeout, interval).Should(Equal(int32(3)))
		})

		It("stops at the first rejected manifest", func() {
			prepared, err := pkgdef.Prepare(ctx, newPackage(webapp.Settings{}), kinds.Default())
			Expect(err).NotTo(HaveOccurred())

			// The API server rejects names that are not DNS labels.
			prepared[4].SetName("Shop_Service")

			log := tracking.New()
			err = engine.Install(ctx, prepared, log)

			var ie *installer.InstallError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Index).To(Equal(4))
			Expect(log.Len()).To(Equal(4))
		})
	})

	Context("Discover", func() {
		It("finds what install applied and nothing owned", func() {
			log := tracking.New()
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{}), log)).To(Succeed())

			deployment := &appsv1.Deployment{}
			Expect(k8sClient.Get(ctx, types.NamespacedName{Namespace: id.Namespace, Name: "shop"}, deployment)).To(Succeed())

			By("creating a labelled object owned by the Deployment")
			owned := &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "shop-owned",
					Namespace: id.Namespace,
					Labels:    id.Labels(),
					OwnerReferences: []metav1.OwnerReference{{
						APIVersion: "apps/v1",
						Kind:       "Deployment",
						Name:       deployment.Name,
						UID:        deployment.UID,
					}},
				},
			}
			Expect(k8sClient.Create(ctx, owned)).To(Succeed())

			found, err := engine.Discover(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(refs(found)).To(ConsistOf(refs(log.Entries())))
			for _, obj := range found {
				Expect(obj.GetKind()).NotTo(BeEmpty())
				Expect(obj.GetAPIVersion()).NotTo(BeEmpty())
			}
		})

		It("finds nothing for an instance that was never installed", func() {
			found, err := engine.Discover(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeEmpty())
		})
	})

	Context("Upgrade", func() {
		It("refuses to create a missing instance", func() {
			err := engine.Upgrade(ctx, newPackage(webapp.Settings{}), false, tracking.New())
			Expect(err).To(MatchError(installer.ErrAppNotFound))
		})

		It("creates the instance when allowed", func() {
			log := tracking.New()
			Expect(engine.Upgrade(ctx, newPackage(webapp.Settings{}), true, log)).To(Succeed())
			Expect(log.Len()).To(Equal(5))
		})
	})

	Context("Uninstall", func() {
		It("deletes in reverse apply order", func() {
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{}), tracking.New())).To(Succeed())

			deleted, err := engine.Uninstall(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(refs(deleted)).To(Equal([]string{
				"Service/" + id.Namespace + "/shop",
				"Deployment/" + id.Namespace + "/shop",
				"ServiceAccount/" + id.Namespace + "/shop",
				"ConfigMap/" + id.Namespace + "/shop-config",
				"Namespace/" + id.Namespace,
			}))

			Eventually(func() bool {
				err := k8sClient.Get(ctx, types.NamespacedName{Namespace: id.Namespace, Name: "shop"}, &appsv1.Deployment{})
				return apierrors.IsNotFound(err)
			}, timeout, interval).Should(BeTrue())

			ns := &corev1.Namespace{}
			Expect(k8sClient.Get(ctx, client.ObjectKey{Name: id.Namespace}, ns)).To(Succeed())
			Expect(ns.DeletionTimestamp).NotTo(BeNil())
		})
	})

	Context("Revert", func() {
		It("deletes the tracking log entries newest first", func() {
			log := tracking.New()
			Expect(engine.InstallPackage(ctx, newPackage(webapp.Settings{}), log)).To(Succeed())

			deleted, err := engine.Revert(ctx, log, id.Namespace, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(HaveLen(2))
			Expect(deleted[0].GetKind()).To(Equal("Service"))
			Expect(deleted[1].GetKind()).To(Equal("Deployment"))
			Expect(log.Len()).To(Equal(3))

			Expect(k8sClient.Get(ctx, types.NamespacedName{Namespace: id.Namespace, Name: "shop"}, &corev1.ServiceAccount{})).To(Succeed())
		})
	})
})

package rolenames_test

import (
	. "code.cloudfoundry.org/permstore/pkg/rolenames"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("rolenames", func() {
	Describe("builders", func() {
		It("joins the parts with the separator", func() {
			Expect(MasterRoleName("someApp")).To(Equal("Master+someApp"))
			Expect(ManageAppMasterRoleName("someApp")).To(Equal("ManageAppMaster+someApp"))
			Expect(ModifyNamespaceRoleName("someApp", "application")).To(Equal("ModifyNamespace+someApp+application"))
			Expect(ModifyNamespaceRoleName("someApp", "application", "DEV")).To(Equal("ModifyNamespace+someApp+application+DEV"))
			Expect(ReleaseNamespaceRoleName("someApp", "application", "PRO")).To(Equal("ReleaseNamespace+someApp+application+PRO"))
			Expect(ModifyNamespacesInClusterRoleName("clusterApp", "DEV", "default")).To(Equal("ModifyNamespacesInCluster+clusterApp+DEV+default"))
			Expect(ReleaseNamespacesInClusterRoleName("clusterApp", "DEV", "default")).To(Equal("ReleaseNamespacesInCluster+clusterApp+DEV+default"))
		})

		It("builds targets", func() {
			Expect(NamespaceTargetID("someApp", "application")).To(Equal("someApp+application"))
			Expect(NamespaceTargetID("someApp", "application", "DEV")).To(Equal("someApp+application+DEV"))
			Expect(ClusterTargetID("someApp", "DEV", "default")).To(Equal("someApp+DEV+default"))
		})

		It("skips empty parts", func() {
			Expect(NamespaceTargetID("someApp", "application", "")).To(Equal("someApp+application"))
		})
	})

	Describe("BelongsToApp", func() {
		DescribeTable("role names",
			func(roleName string, expected bool) {
				Expect(BelongsToApp(roleName, "someApp")).To(Equal(expected))
			},
			Entry("master", "Master+someApp", true),
			Entry("manage app master", "ManageAppMaster+someApp", true),
			Entry("modify namespace", "ModifyNamespace+someApp+application", true),
			Entry("release namespace with env", "ReleaseNamespace+someApp+application+DEV", true),
			Entry("modify namespaces in cluster", "ModifyNamespacesInCluster+someApp+DEV+default", true),
			Entry("release namespaces in cluster", "ReleaseNamespacesInCluster+someApp+DEV+default", true),
			Entry("master of an app sharing a prefix", "Master+someApp2", false),
			Entry("namespace role of an app sharing a prefix", "ModifyNamespace+someApp2+application", false),
			Entry("unrelated", "someRoleName", false),
		)

		It("matches targets of the app only", func() {
			Expect(TargetBelongsToApp("someApp", "someApp")).To(BeTrue())
			Expect(TargetBelongsToApp("someApp+application", "someApp")).To(BeTrue())
			Expect(TargetBelongsToApp("someApp2", "someApp")).To(BeFalse())
			Expect(TargetBelongsToApp("someApp2+application", "someApp")).To(BeFalse())
		})
	})

	Describe("BelongsToNamespace", func() {
		It("matches the namespace roles with and without env", func() {
			Expect(BelongsToNamespace("ModifyNamespace+someApp+application", "someApp", "application")).To(BeTrue())
			Expect(BelongsToNamespace("ReleaseNamespace+someApp+application+DEV", "someApp", "application")).To(BeTrue())
			Expect(BelongsToNamespace("ModifyNamespace+someApp+application2", "someApp", "application")).To(BeFalse())
			Expect(BelongsToNamespace("Master+someApp", "someApp", "application")).To(BeFalse())
		})

		It("matches the namespace targets", func() {
			Expect(TargetBelongsToNamespace("someApp+application", "someApp", "application")).To(BeTrue())
			Expect(TargetBelongsToNamespace("someApp+application+DEV", "someApp", "application")).To(BeTrue())
			Expect(TargetBelongsToNamespace("someApp", "someApp", "application")).To(BeFalse())
		})
	})
})

package rbac

// Permission names follow the "<resource>:<action>" convention and are
// shared across every service in the deployment.
const (
	PermUserRead      = "user:read"
	PermUserCreate    = "user:create"
	PermUserUpdate    = "user:update"
	PermUserDelete    = "user:delete"
	PermUserManageAll = "user:manage_all"

	PermUnitRead      = "unit:read"
	PermUnitCreate    = "unit:create"
	PermUnitUpdate    = "unit:update"
	PermUnitDelete    = "unit:delete"
	PermUnitManageAll = "unit:manage_all"

	PermTaskRead      = "task:read"
	PermTaskCreate    = "task:create"
	PermTaskUpdate    = "task:update"
	PermTaskDelete    = "task:delete"
	PermTaskAssign    = "task:assign"
	PermTaskManageAll = "task:manage_all"

	PermNewsRead      = "news:read"
	PermNewsCreate    = "news:create"
	PermNewsUpdate    = "news:update"
	PermNewsDelete    = "news:delete"
	PermNewsPublish   = "news:publish"
	PermNewsManageAll = "news:manage_all"

	PermFileRead      = "file:read"
	PermFileUpload    = "file:upload"
	PermFileDelete    = "file:delete"
	PermFileManageAll = "file:manage_all"

	PermProjectRead      = "project:read"
	PermProjectCreate    = "project:create"
	PermProjectUpdate    = "project:update"
	PermProjectDelete    = "project:delete"
	PermProjectManageAll = "project:manage_all"

	PermAnalyticsRead   = "analytics:read"
	PermAnalyticsManage = "analytics:manage"

	PermSystemAdmin   = "system:admin"
	PermSystemMonitor = "system:monitor"
)

// Each role lists its catalog explicitly. There is no inheritance between
// roles: granting a permission to one role never changes another.
var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermSystemAdmin,
		PermSystemMonitor,

		PermUserRead,
		PermUserCreate,
		PermUserUpdate,
		PermUserDelete,
		PermUserManageAll,

		PermUnitRead,
		PermUnitCreate,
		PermUnitUpdate,
		PermUnitDelete,
		PermUnitManageAll,

		PermTaskRead,
		PermTaskCreate,
		PermTaskUpdate,
		PermTaskDelete,
		PermTaskAssign,
		PermTaskManageAll,

		PermNewsRead,
		PermNewsCreate,
		PermNewsUpdate,
		PermNewsDelete,
		PermNewsPublish,
		PermNewsManageAll,

		PermFileRead,
		PermFileUpload,
		PermFileDelete,
		PermFileManageAll,

		PermProjectRead,
		PermProjectCreate,
		PermProjectUpdate,
		PermProjectDelete,
		PermProjectManageAll,

		PermAnalyticsRead,
		PermAnalyticsManage,
	},
	RoleUnitManager: {
		PermSystemMonitor,

		PermUserRead,
		PermUserCreate,
		PermUserUpdate,

		PermUnitRead,
		PermUnitUpdate,

		PermTaskRead,
		PermTaskCreate,
		PermTaskUpdate,
		PermTaskDelete,
		PermTaskAssign,
		PermTaskManageAll,

		PermNewsRead,
		PermNewsCreate,
		PermNewsUpdate,
		PermNewsDelete,
		PermNewsPublish,
		PermNewsManageAll,

		PermFileRead,
		PermFileUpload,
		PermFileDelete,

		PermProjectRead,
		PermProjectCreate,
		PermProjectUpdate,
		PermProjectDelete,
		PermProjectManageAll,

		PermAnalyticsRead,
		PermAnalyticsManage,
	},
	RoleStaff: {
		PermUserRead,
		PermUserUpdate,

		PermUnitRead,

		PermTaskRead,
		PermTaskCreate,
		PermTaskUpdate,

		PermNewsRead,
		PermNewsCreate,
		PermNewsUpdate,

		PermFileRead,
		PermFileUpload,

		PermProjectRead,
		PermProjectUpdate,

		PermAnalyticsRead,
	},
	RoleViewer: {
		PermUserRead,
		PermUnitRead,
		PermTaskRead,
		PermNewsRead,
		PermFileRead,
		PermProjectRead,
		PermAnalyticsRead,
	},
}

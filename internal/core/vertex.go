package core

const (
	CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

	// https://{location}-aiplatform.googleapis.com/v1/projects/{project}/locations/{location}
	VertexAIBaseURLFormat = "https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s"

	VertexPublisherModelsPath = "/publishers/google/models"
	VertexPredictPathFormat   = "/publishers/google/models/%s:predict"
)

// Imagen 預設參數
const (
	DefaultImagenModel    = "imagen-3.0-generate-001"
	DefaultAspectRatio    = "1:1"
	DefaultNumberOfImages = 1
)

// 成功回應碼
const ResponseCodeSuccess = 1000

type CredentialsCleanup string

const (
	CredentialsCleanupGlobal   CredentialsCleanup = "global"
	CredentialsCleanupTrailing CredentialsCleanup = "trailing"
)

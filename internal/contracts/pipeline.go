package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 실행 결과에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4
//   Collect  Universe  Signals  Composite  Persist

// Stage represents a pipeline stage
type Stage string

const (
	// StageCollect S0: 뉴스/게시글/캔들/애널리스트 데이터 수집
	// 위치: internal/s0_data/
	StageCollect Stage = "S0_COLLECT"

	// StageUniverse S1: 추적 종목과 시총 가중치
	// 위치: internal/s1_universe/
	StageUniverse Stage = "S1_UNIVERSE"

	// StageSignals S2: 뉴스/소셜/기술/애널리스트 드라이버 계산
	// 위치: internal/s2_signals/
	StageSignals Stage = "S2_SIGNALS"

	// StageComposite S3: 드라이버 가중 합산 및 라벨
	// 위치: internal/s3_composite/
	StageComposite Stage = "S3_COMPOSITE"

	// StagePersist S4: 실행 결과 원자적 저장
	// 위치: internal/s0_data/run_repository.go
	StagePersist Stage = "S4_PERSIST"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageCollect:
		return "S0"
	case StageUniverse:
		return "S1"
	case StageSignals:
		return "S2"
	case StageComposite:
		return "S3"
	case StagePersist:
		return "S4"
	default:
		return "UNKNOWN"
	}
}

// Description returns a short description of the stage
func (s Stage) Description() string {
	switch s {
	case StageCollect:
		return "data collection"
	case StageUniverse:
		return "tracked universe"
	case StageSignals:
		return "driver scoring"
	case StageComposite:
		return "composite blend"
	case StagePersist:
		return "run persistence"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageCollect,
		StageUniverse,
		StageSignals,
		StageComposite,
		StagePersist,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

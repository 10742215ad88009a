package i18n

var ko = map[string]string{
	"resetting": "리셋중",

	"detail_title":      "Claude 토큰 사용량",
	"model":             "모델",
	"model_source":      "판단 근거",
	"multiplier":        "배수",
	"input_raw":         "입력 토큰 (원본)",
	"output_raw":        "출력 토큰 (원본)",
	"total_raw":         "총 사용량 (원본)",
	"total_effective":   "총 사용량 (환산)",
	"remaining":         "남은 토큰",
	"over_budget":       "초과량",
	"percent_used":      "사용",
	"percent_remaining": "남음",
	"window_start":      "시작 시간",
	"window_end":        "리셋 시간",
	"time_left":         "리셋까지",
	"manual_updates":    "수동 업데이트",
	"estimated_updates": "추정 세션",
	"requests_left":     "남은 요청 수",
	"work_left":         "남은 작업 시간",

	"source_forced":    "수동 지정",
	"source_detected":  "자동 감지",
	"source_heuristic": "사용량 기반 추정",

	"tier_sufficient": "충분합니다. 계속 작업하세요.",
	"tier_moderate":   "보통입니다. 큰 작업은 계획을 세우세요.",
	"tier_low":        "부족합니다. 작고 집중된 요청을 권장합니다.",
	"tier_critical":   "거의 소진되었습니다. 작업을 마무리하거나 리셋을 기다리세요.",

	"added":            "추가됨 - 입력: %d, 출력: %d",
	"estimated":        "추정됨 - 입력: %d, 출력: %d",
	"total_usage":      "총 사용량: %d",
	"reset_done":       "토큰 사용량이 초기화되었습니다. 다음 리셋: %s",
	"model_current":    "현재 모델: %s (배수: %sx, %s)",
	"model_set":        "모델 설정: %s",
	"model_cleared":    "모델 지정이 해제되었습니다.",
	"model_available":  "사용 가능한 모델: %s",
	"request_written":  "업데이트 요청 %s 저장: %s",
	"monitor_started":  "%s 간격으로 모니터링합니다. Ctrl+C로 종료하세요.",
	"monitor_stopped":  "모니터가 종료되었습니다.",
	"monitor_running":  "모니터가 이미 실행 중입니다 (pid %d).",
	"monitor_signaled": "모니터에 종료 신호를 보냈습니다 (pid %d).",
	"add_needs_counts": "--input/--output 또는 --text-input/--text-output 이 필요합니다",

	"watch_title": "tokenwatch",
	"watch_help":  "q 종료",
	"updated_at":  "갱신 %s",
}

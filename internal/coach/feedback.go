package coach

import (
	"errors"
	"fmt"

	"github.com/misterclayt0n/stretchcoach/internal/models"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
)

const (
	feedbackLoading   = "AI 모델을 불러오는 중..."
	feedbackPreparing = "AI 모델과 카메라를 준비하고 있습니다..."
	feedbackReady     = "준비가 완료되었습니다! 스트레칭을 시작해볼까요?"
	feedbackCounted   = "좋아요! 잠시 자세를 풀었다가 반복해주세요."
	feedbackFinished  = "모든 스트레칭을 완료했습니다! 개운한 하루 보내세요!"

	MessagePermissionDenied = "카메라 접근 권한이 필요합니다. 페이지를 새로고침하고 권한을 허용해주세요."
	MessageDeviceNotFound   = "카메라를 찾을 수 없습니다. 카메라가 연결되어 있고 다른 앱에서 사용하고 있지 않은지 확인해주세요."
	MessageUnknown          = "앱을 초기화하는 데 실패했습니다. 인터넷 연결 및 카메라 연결을 확인해주세요."
	MessageLibraryMissing   = "필수 라이브러리를 불러오지 못했습니다. 인터넷 연결을 확인하고 페이지를 새로고침 해주세요."
)

func introFeedback(s models.Stretch) string {
	return fmt.Sprintf("'%s' 자세를 %d회 반복합니다.", s.DisplayName, s.TargetReps)
}

func rearmFeedback(s models.Stretch) string {
	return fmt.Sprintf("다시 '%s' 자세를 취해주세요.", s.DisplayName)
}

// ErrorMessage maps an initialization failure to the text shown to the user.
func ErrorMessage(err error) string {
	if errors.Is(err, pose.ErrLibraryUnavailable) {
		return MessageLibraryMissing
	}
	switch pose.Classify(err).Kind {
	case pose.PermissionDenied:
		return MessagePermissionDenied
	case pose.DeviceNotFound:
		return MessageDeviceNotFound
	default:
		return MessageUnknown
	}
}

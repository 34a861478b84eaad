package app

import (
	"strconv"

	"github.com/park285/study-arena-go/internal/common/messageprovider"
	amessages "github.com/park285/study-arena-go/internal/studyarena/messages"
)

// yamlBotNamer: 메시지 YAML의 목록에서 봇 표시 이름을 고른다.
// 목록이 슬롯 수보다 짧으면 순환한다.
type yamlBotNamer struct {
	names []string
}

func newBotNamer(provider *messageprovider.Provider) *yamlBotNamer {
	return &yamlBotNamer{names: provider.List(amessages.BotNames)}
}

// BotName: 슬롯 인덱스에 대응하는 봇 이름을 반환한다. 목록이 비면 빈 문자열.
func (n *yamlBotNamer) BotName(index int) string {
	if n == nil || len(n.names) == 0 || index < 0 {
		return ""
	}
	name := n.names[index%len(n.names)]
	if name == "" {
		return "bot-" + strconv.Itoa(index)
	}
	return name
}

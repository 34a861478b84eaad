package assets

import _ "embed" // 에셋 임베드용

// ArenaMessagesYAML 는 스터디 아레나 메시지 YAML이다.
//
//go:embed messages/arena-messages.yml
var ArenaMessagesYAML string

package identification

// stopWords lists lowercase tokens that introduction patterns capture in
// ordinary speech but that are never first names. Entries like "here" and
// "speaking" guard the trailing-trigger patterns against phrases such as
// "come here" or "broadly speaking"; greetings and filler cover the rest.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "actually": {}, "after": {}, "again": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "are": {},
	"at": {}, "audio": {}, "back": {}, "be": {}, "been": {},
	"but": {}, "come": {}, "currently": {}, "doing": {}, "done": {},
	"down": {}, "finally": {}, "for": {}, "from": {}, "get": {},
	"getting": {}, "glad": {}, "going": {}, "gonna": {}, "good": {},
	"got": {}, "happy": {}, "have": {}, "hello": {}, "her": {},
	"here": {}, "hey": {}, "hi": {}, "his": {}, "how": {},
	"in": {}, "is": {}, "it": {}, "just": {}, "like": {},
	"live": {}, "looking": {}, "more": {}, "my": {}, "name": {},
	"new": {}, "not": {}, "now": {}, "of": {}, "okay": {},
	"on": {}, "one": {}, "out": {}, "over": {}, "really": {},
	"right": {}, "so": {}, "some": {}, "sorry": {}, "speaking": {},
	"still": {}, "sure": {}, "talking": {}, "thank": {}, "thanks": {},
	"that": {}, "the": {}, "there": {}, "this": {}, "to": {},
	"today": {}, "up": {}, "very": {}, "was": {}, "welcome": {},
	"well": {}, "what": {}, "where": {}, "with": {}, "you": {},
	"your": {},
}

func isStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

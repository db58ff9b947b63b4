package statuscmd

import (
	"fmt"

	"github.com/dalemusser/clanboard/internal/domain/status"
)

// acknowledgement composes the reply for a status transition. The copy
// depends on the previous status: a same-status repeat, a recognized
// prior-status transition, or a generic line. prev is nil when the user
// had no status.
func acknowledgement(newV status.Value, prev *status.Value, mention string) string {
	repeat := prev != nil && *prev == newV
	from := func(candidates ...status.Value) bool {
		if prev == nil {
			return false
		}
		for _, c := range candidates {
			if *prev == c {
				return true
			}
		}
		return false
	}

	switch newV {
	case status.Studying:
		switch {
		case repeat:
			return fmt.Sprintf("📚 Wow, %s, you're a study machine! Still deep in the books — keep that brain buzzing! 🧠✨", mention)
		case from(status.Free, status.Break):
			return fmt.Sprintf("📖 Switching gears, %s! You're now **Studying Right Now** — time to conquer those chapters! 🚀📚", mention)
		case from(status.Sleeping):
			return fmt.Sprintf("📚 Fresh from a nap, %s? You're now **Studying Right Now** — let's hit those books with full energy! ⚡", mention)
		default:
			return fmt.Sprintf("📚 Locked in, %s! You're now **Studying Right Now** — may your focus be as sharp as a ninja! 🥷✨", mention)
		}
	case status.Break:
		switch {
		case repeat:
			return fmt.Sprintf("☕ Another break, %s? You're living the chill life — grab a snack and soak in the vibes! 🍵😎", mention)
		case from(status.Studying):
			return fmt.Sprintf("☕ Time for a breather, %s! You're now **On a Break** — kick back and recharge! 🌟", mention)
		case from(status.Sleeping):
			return fmt.Sprintf("☕ Up from your slumber, %s? You're now **On a Break** — let's sip some tea and ease into the day! 🍵", mention)
		default:
			return fmt.Sprintf("☕ Break time, %s! You're now **On a Break** — unwind and let the good vibes flow! 🌈", mention)
		}
	case status.DoLater:
		switch {
		case repeat:
			return fmt.Sprintf("⏰ Still on the 'later' train, %s? No worries — procrastination is an art form! 🎨😉", mention)
		case from(status.Studying):
			return fmt.Sprintf("⏰ Taking a step back, %s? You're now **Do Later** — plan your next move like a true strategist! 🗒️", mention)
		case from(status.Free):
			return fmt.Sprintf("⏰ Postponing the fun, %s? You're now **Do Later** — we'll catch up when the time's right! ⏳", mention)
		default:
			return fmt.Sprintf("⏰ You're now **Do Later**, %s! Take your time — good things come to those who wait! 🕰️", mention)
		}
	case status.Free:
		switch {
		case repeat:
			return fmt.Sprintf("🟢 Still vibin', %s? You're free as a bird — let's chat or team up for something epic! 🐦✨", mention)
		case from(status.Studying, status.DoLater):
			return fmt.Sprintf("🟢 Task mode off, %s! You're now **Free to Chat** — time to connect with the clan! 🌟", mention)
		case from(status.Outside):
			return fmt.Sprintf("🟢 Back from your adventure, %s? You're now **Free to Chat** — spill the tea on your outing! ☕", mention)
		default:
			return fmt.Sprintf("🟢 You're now **Free to Chat**, %s! The clan's ready to vibe with you! 🎉", mention)
		}
	case status.Sleeping:
		switch {
		case repeat:
			return fmt.Sprintf("😴 Still lost in dreamland, %s? Keep snoozing — we'll guard the clan while you rest! 🌙", mention)
		case from(status.Free):
			return fmt.Sprintf("😴 Calling it a day, %s? You're now **Sleeping** — drift off to a world of dreams! 💤", mention)
		case from(status.Break):
			return fmt.Sprintf("😴 From break to bed, %s! You're now **Sleeping** — rest well, ninja! 🌟", mention)
		default:
			return fmt.Sprintf("😴 You're now **Sleeping**, %s! May your dreams be filled with epic clan adventures! 🌌", mention)
		}
	case status.Outside:
		switch {
		case repeat:
			return fmt.Sprintf("🚶 Still exploring, %s? The world's your playground — enjoy every moment out there! 🌍", mention)
		case from(status.Sleeping):
			return fmt.Sprintf("🚶 Awake and adventuring, %s! You're now **Outside** — breathe in the fresh air! ☀️", mention)
		case from(status.Studying):
			return fmt.Sprintf("🚶 Escaping the books, %s? You're now **Outside** — let nature recharge your soul! 🌳", mention)
		default:
			return fmt.Sprintf("🚶 You're now **Outside**, %s! Step into the sunshine and make some memories! 🌞", mention)
		}
	}
	// Unreachable for catalog members; keep a sane fallback anyway.
	return fmt.Sprintf("🌟 Status updated, %s!", mention)
}

// clearAcknowledgement is the reply for a successful clear.
func clearAcknowledgement(mention string) string {
	return fmt.Sprintf("🧹 Status reset, %s! You're a blank slate — set a new vibe with `AC srn`, `AC b`, or others! 🎨", mention)
}

// noStatusHint is the reply for clearing when nothing is set.
func noStatusHint(mention string) string {
	return fmt.Sprintf("🤔 You haven't set a status yet, %s! Let's get started — try `AC srn`, `AC b`, or another command! 🌟", mention)
}

// unknownTokenHint is the reply for an unrecognized command token.
func unknownTokenHint(mention string) string {
	return fmt.Sprintf("🤷 I don't know that one, %s. Try `AC help` to see the commands! 📋", mention)
}

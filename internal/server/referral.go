package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"buywise/internal/database"
	"buywise/internal/locale"
	"buywise/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrSelfReferral = errors.New("cannot refer yourself")
var ErrReferralCodeInvalid = errors.New("referral code is invalid")

type rewardMilestone struct {
	Count   int
	Percent int
}

// rewardMilestones must stay sorted ascending by Count; milestone
// evaluation walks them in order.
var rewardMilestones = []rewardMilestone{
	{Count: 1, Percent: 3},
	{Count: 3, Percent: 5},
	{Count: 5, Percent: 10},
	{Count: 10, Percent: 15},
}

// milestonesFor returns the milestones reached at the given referral count.
func milestonesFor(count int) []rewardMilestone {
	var ms []rewardMilestone
	for _, m := range rewardMilestones {
		if count >= m.Count {
			ms = append(ms, m)
		}
	}
	return ms
}

const couponValidity = 30 * 24 * time.Hour

func newReferralCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BW" + id[:8]
}

// couponCode is unique by construction most of the time; the base36
// timestamp keeps it short. withSuffix adds extra entropy after a
// collision on the unique code index.
func couponCode(percent int, telegramID int64, withSuffix bool) string {
	code := fmt.Sprintf("BW%d-%d-%s", percent, telegramID,
		strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
	if withSuffix {
		id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		code += "-" + id[:4]
	}
	return code
}

func (s Server) referralLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", s.BotUsername, code)
}

// ensureReferralCode lazily generates a user's referral code. The unique
// sparse index on the code is the arbiter: on a collision we generate a
// fresh code, on a lost race we return whatever the winner wrote.
func (s Server) ensureReferralCode(ctx context.Context, user model.UserProfile) (string, error) {
	if user.ReferralCode != "" {
		return user.ReferralCode, nil
	}
	for attempt := 0; attempt < 3; attempt++ {
		code := newReferralCode()
		err := s.DB.UserSetReferralCode(ctx, user.TelegramID, code)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, database.ErrNoDocumentsModified) {
			u, err := s.DB.UserFindByTelegramID(ctx, user.TelegramID)
			if err != nil {
				return "", err
			}
			if u.ReferralCode != "" {
				return u.ReferralCode, nil
			}
			continue
		}
		s.Logger.Warnf("ensureReferralCode: Retrying after error, TelegramID: %d, err: %v", user.TelegramID, err)
	}
	return "", errors.Errorf("failed to generate referral code for TelegramID: %d", user.TelegramID)
}

// ApplyReferral links a newly joined user to a referrer and evaluates the
// referrer's reward milestones. Self referrals and second referrals are
// rejected; the unique index on referred_id backs the latter under races.
func (s Server) ApplyReferral(ctx context.Context, code string, referredID int64) error {
	referrer, err := s.DB.UserFindByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return errors.Wrapf(ErrReferralCodeInvalid, "code: %s", code)
		}
		return errors.Wrap(err, "ApplyReferral: error finding referrer")
	}
	if referrer.TelegramID == referredID {
		return ErrSelfReferral
	}

	err = s.DB.ReferralEdgeInsert(ctx, model.ReferralEdge{
		ReferrerID: referrer.TelegramID,
		ReferredID: referredID,
	})
	if err != nil {
		return err
	}
	if err = s.DB.UserSetReferredBy(ctx, referredID, referrer.TelegramID); err != nil {
		s.Logger.Errorf("ApplyReferral: Error setting ReferredBy, ReferredID: %d, err: %v", referredID, err)
	}

	count, err := s.DB.ReferralCount(ctx, referrer.TelegramID)
	if err != nil {
		return errors.Wrap(err, "ApplyReferral: error counting referrals")
	}
	s.Logger.Infof("ApplyReferral: ReferrerID: %d now has %d referral(s)", referrer.TelegramID, count)
	s.evaluateMilestones(ctx, referrer, count)
	return nil
}

// evaluateMilestones issues one coupon per reached milestone. The
// (telegram_id, milestone) unique index makes re-evaluation idempotent,
// and a colliding coupon code gets one regenerated retry.
func (s Server) evaluateMilestones(ctx context.Context, referrer model.UserProfile, count int) {
	for _, m := range milestonesFor(count) {
		exists, err := s.DB.CouponExists(ctx, referrer.TelegramID, m.Count)
		if err != nil {
			s.Logger.Errorf("evaluateMilestones: Error checking coupon, TelegramID: %d, Milestone: %d, err: %v",
				referrer.TelegramID, m.Count, err)
			continue
		}
		if exists {
			continue
		}

		var issued string
		for attempt := 0; attempt < 2; attempt++ {
			code := couponCode(m.Percent, referrer.TelegramID, attempt > 0)
			err := s.DB.CouponInsert(ctx, model.RewardCoupon{
				TelegramID: referrer.TelegramID,
				Milestone:  m.Count,
				Percent:    m.Percent,
				Code:       code,
				ExpiresAt:  primitive.NewDateTimeFromTime(time.Now().Add(couponValidity)),
			})
			if err == nil {
				issued = code
				break
			}
			if errors.Is(err, database.ErrCouponExists) {
				break
			}
			if errors.Is(err, database.ErrCouponCodeTaken) {
				s.Logger.Warnf("evaluateMilestones: Coupon code collision, regenerating, code: %s", code)
				continue
			}
			s.Logger.Errorf("evaluateMilestones: Error inserting coupon, TelegramID: %d, Milestone: %d, err: %v",
				referrer.TelegramID, m.Count, err)
			break
		}
		if issued == "" {
			continue
		}

		s.Logger.Infof("evaluateMilestones: Issued %d%% coupon to TelegramID: %d for milestone %d",
			m.Percent, referrer.TelegramID, m.Count)
		text := locale.Tf(referrer.Language, "referral_reward", m.Percent, issued)
		go func(chatID int64, text string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Chat.SendMessage(sendCtx, chatID, text, nil); err != nil {
				s.Logger.Errorf("evaluateMilestones: Error notifying referrer, ChatID: %d, err: %v", chatID, err)
			}
		}(referrer.TelegramID, text)
	}
}

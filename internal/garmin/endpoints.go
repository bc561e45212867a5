//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// Activity endpoints.

// ActivitiesByDate returns every activity between two dates, newest first,
// paging the search endpoint until it runs dry. activityType is optional.
func (c *Client) ActivitiesByDate(ctx context.Context, startDate, endDate, activityType string) (json.RawMessage, error) {
	const pageSize = 100
	var all []json.RawMessage
	for start := 0; ; start += pageSize {
		query := url.Values{
			"startDate": {startDate},
			"endDate":   {endDate},
			"start":     {strconv.Itoa(start)},
			"limit":     {strconv.Itoa(pageSize)},
		}
		if activityType != "" {
			query.Set("activityType", activityType)
		}
		raw, err := c.getJSON(ctx, "/activitylist-service/activities/search/activities", query)
		if err != nil {
			return nil, err
		}
		var page []json.RawMessage
		if raw != nil {
			if err := json.Unmarshal(raw, &page); err != nil {
				return nil, fmt.Errorf("activities page: %w", err)
			}
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	return json.Marshal(all)
}

// Activities returns one page of the activity list.
func (c *Client) Activities(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/activitylist-service/activities/search/activities", query)
}

// ActivitiesForDate returns the mobile-gateway activity list for one day.
func (c *Client) ActivitiesForDate(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/mobile-gateway/activity-list/activities/fordate/"+date, nil)
}

// Activity returns the full detail document for one activity.
func (c *Client) Activity(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID, nil)
}

// ActivitySplits returns the lap splits of an activity.
func (c *Client) ActivitySplits(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/splits", nil)
}

// ActivityTypedSplits returns the typed splits of an activity.
func (c *Client) ActivityTypedSplits(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/typedsplits", nil)
}

// ActivitySplitSummaries returns per-split-type aggregates of an activity.
func (c *Client) ActivitySplitSummaries(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/split_summaries", nil)
}

// ActivityWeather returns the recorded weather conditions of an activity.
func (c *Client) ActivityWeather(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/weather", nil)
}

// ActivityHRInTimezones returns the time-in-heart-rate-zone breakdown.
func (c *Client) ActivityHRInTimezones(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/hrTimeInZones", nil)
}

// ActivityExerciseSets returns strength-training set data.
func (c *Client) ActivityExerciseSets(ctx context.Context, activityID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/"+activityID+"/exerciseSets", nil)
}

// ActivityGear returns the gear linked to an activity.
func (c *Client) ActivityGear(ctx context.Context, activityID string) (json.RawMessage, error) {
	query := url.Values{"activityId": {activityID}}
	return c.getJSON(ctx, "/gear-service/gear/filterGear", query)
}

// CountActivities returns the total number of recorded activities.
func (c *Client) CountActivities(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activitylist-service/activities/count", nil)
}

// ActivityTypes returns the full vendor activity-type catalogue.
func (c *Client) ActivityTypes(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/activity-service/activity/activityTypes", nil)
}

// Wellness endpoints. Most of these are keyed by the account display name.

// UserSummary returns the daily wellness summary for a date.
func (c *Client) UserSummary(ctx context.Context, date string) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{"calendarDate": {date}}
	return c.getJSON(ctx, "/usersummary-service/usersummary/daily/"+name, query)
}

// BodyComposition returns body composition entries for a date range.
func (c *Client) BodyComposition(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{"startDate": {startDate}, "endDate": {endDate}}
	return c.getJSON(ctx, "/weight-service/weight/dateRange", query)
}

// StepsData returns the intraday step chart for a date.
func (c *Client) StepsData(ctx context.Context, date string) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{"date": {date}}
	return c.getJSON(ctx, "/wellness-service/wellness/dailySummaryChart/"+name, query)
}

// DailySteps returns per-day step totals for a date range.
func (c *Client) DailySteps(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usersummary-service/stats/steps/daily/"+startDate+"/"+endDate, nil)
}

// TrainingReadiness returns the training readiness entries for a date.
func (c *Client) TrainingReadiness(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/trainingreadiness/"+date, nil)
}

// MorningTrainingReadiness returns the morning readiness assessment.
func (c *Client) MorningTrainingReadiness(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/trainingreadiness/morning/"+date, nil)
}

// BodyBattery returns daily body battery reports for a date range.
func (c *Client) BodyBattery(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{"startDate": {startDate}, "endDate": {endDate}}
	return c.getJSON(ctx, "/wellness-service/wellness/bodyBattery/reports/daily", query)
}

// BodyBatteryEvents returns body battery events (sleep, activity...) for a date.
func (c *Client) BodyBatteryEvents(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/bodyBattery/events/"+date, nil)
}

// BloodPressure returns blood pressure measurements for a date range.
func (c *Client) BloodPressure(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{"includeAll": {"true"}}
	return c.getJSON(ctx, "/bloodpressure-service/bloodpressure/range/"+startDate+"/"+endDate, query)
}

// Floors returns the floors climbed chart for a date.
func (c *Client) Floors(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/floorsChartData/daily/"+date, nil)
}

// RestingHeartRate returns the resting heart rate metric for a date.
func (c *Client) RestingHeartRate(ctx context.Context, date string) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"fromDate":  {date},
		"untilDate": {date},
		"metricId":  {"60"},
	}
	return c.getJSON(ctx, "/userstats-service/wellness/daily/"+name, query)
}

// HeartRates returns the intraday heart rate series for a date.
func (c *Client) HeartRates(ctx context.Context, date string) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{"date": {date}}
	return c.getJSON(ctx, "/wellness-service/wellness/dailyHeartRate/"+name, query)
}

// Hydration returns the hydration log for a date.
func (c *Client) Hydration(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usersummary-service/usersummary/hydration/daily/"+date, nil)
}

// SleepData returns the full sleep document for a date.
func (c *Client) SleepData(ctx context.Context, date string) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"date":                  {date},
		"nonSleepBufferMinutes": {"60"},
	}
	return c.getJSON(ctx, "/wellness-service/wellness/dailySleepData/"+name, query)
}

// StressData returns the intraday stress series for a date.
func (c *Client) StressData(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/dailyStress/"+date, nil)
}

// RespirationData returns the respiration series for a date.
func (c *Client) RespirationData(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/daily/respiration/"+date, nil)
}

// SpO2 returns the pulse ox data for a date.
func (c *Client) SpO2(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/wellness-service/wellness/daily/spo2/"+date, nil)
}

// AllDayEvents returns wellness events (naps, activities) for a date.
func (c *Client) AllDayEvents(ctx context.Context, date string) (json.RawMessage, error) {
	query := url.Values{"calendarDate": {date}}
	return c.getJSON(ctx, "/wellness-service/wellness/dailyEvents", query)
}

// WeeklySteps returns weekly step aggregates ending at endDate.
func (c *Client) WeeklySteps(ctx context.Context, endDate string, weeks int) (json.RawMessage, error) {
	return c.getJSON(ctx,
		"/usersummary-service/stats/steps/weekly/"+endDate+"/"+strconv.Itoa(weeks), nil)
}

// WeeklyStress returns weekly stress aggregates ending at endDate.
func (c *Client) WeeklyStress(ctx context.Context, endDate string, weeks int) (json.RawMessage, error) {
	return c.getJSON(ctx,
		"/usersummary-service/stats/stress/weekly/"+endDate+"/"+strconv.Itoa(weeks), nil)
}

// DailyIntensityMinutes returns per-day intensity minutes for a date range.
func (c *Client) DailyIntensityMinutes(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/usersummary-service/stats/im/daily/"+startDate+"/"+endDate, nil)
}

// Training and performance endpoints.

// ProgressSummary returns aggregated activity stats between two dates for a
// metric (duration, distance, elevationGain...).
func (c *Client) ProgressSummary(ctx context.Context, startDate, endDate, metric string) (json.RawMessage, error) {
	query := url.Values{
		"startDate":                 {startDate},
		"endDate":                   {endDate},
		"aggregation":               {"lifetime"},
		"groupByParentActivityType": {"true"},
		"metric":                    {metric},
		"standardizedUnits":         {"false"},
	}
	return c.getJSON(ctx, "/fitnessstats-service/activity", query)
}

// HillScore returns hill score stats for a date range.
func (c *Client) HillScore(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{
		"startDate":   {startDate},
		"endDate":     {endDate},
		"aggregation": {"daily"},
	}
	return c.getJSON(ctx, "/metrics-service/metrics/hillscore/stats", query)
}

// EnduranceScore returns endurance score stats for a date range.
func (c *Client) EnduranceScore(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{
		"startDate":   {startDate},
		"endDate":     {endDate},
		"aggregation": {"weekly"},
	}
	return c.getJSON(ctx, "/metrics-service/metrics/endurancescore/stats", query)
}

// HRVData returns heart rate variability data for a date.
func (c *Client) HRVData(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/hrv-service/hrv/"+date, nil)
}

// FitnessAge returns the fitness age document for a date.
func (c *Client) FitnessAge(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/fitnessage-service/fitnessage/"+date, nil)
}

// TrainingStatus returns the aggregated training status for a date.
func (c *Client) TrainingStatus(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/metrics-service/metrics/trainingstatus/aggregated/"+date, nil)
}

// LatestLactateThreshold returns the most recent lactate threshold values,
// combining the speed/heart-rate and power documents into a single object.
func (c *Client) LatestLactateThreshold(ctx context.Context) (json.RawMessage, error) {
	speedHR, err := c.getJSON(ctx, "/biometric-service/biometric/latest/lactateThresholdSpeedAndHeartRate", nil)
	if err != nil {
		return nil, err
	}
	power, err := c.getJSON(ctx, "/biometric-service/biometric/latest/functionalThresholdPower", nil)
	if err != nil {
		return nil, err
	}
	combined := map[string]json.RawMessage{}
	if len(speedHR) > 0 {
		combined["speed_and_heart_rate"] = speedHR
	}
	if len(power) > 0 {
		combined["power"] = power
	}
	return json.Marshal(combined)
}

// LactateThresholdRange returns lactate threshold history between dates.
func (c *Client) LactateThresholdRange(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{
		"startDate":   {startDate},
		"endDate":     {endDate},
		"aggregation": {"daily"},
	}
	return c.getJSON(ctx, "/metrics-service/metrics/lactatethreshold/stats", query)
}

// RequestReload asks Garmin to re-sync wellness epoch data for a date.
func (c *Client) RequestReload(ctx context.Context, date string) (json.RawMessage, error) {
	return c.postJSON(ctx, "/wellness-service/wellness/epoch/request/"+date, nil)
}

// RacePredictions returns the latest race time predictions.
func (c *Client) RacePredictions(ctx context.Context) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, "/metrics-service/metrics/racepredictions/latest/"+name, nil)
}

// Goals, records, badges and challenges.

// Goals returns goals filtered by status (active, future or past).
func (c *Client) Goals(ctx context.Context, status string, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"status": {status},
		"start":  {strconv.Itoa(start)},
		"limit":  {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/goal-service/goal/goals", query)
}

// PersonalRecords returns the account's personal records.
func (c *Client) PersonalRecords(ctx context.Context) (json.RawMessage, error) {
	name, err := c.DisplayName(ctx)
	if err != nil {
		return nil, err
	}
	return c.getJSON(ctx, "/personalrecord-service/personalrecord/prs/"+name, nil)
}

// EarnedBadges returns every badge the account has earned.
func (c *Client) EarnedBadges(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/badge-service/badge/earned", nil)
}

// AdhocChallenges returns historical ad-hoc challenges.
func (c *Client) AdhocChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/adhocchallenge-service/adHocChallenge/historical", query)
}

// AvailableBadgeChallenges returns badge challenges open for joining.
func (c *Client) AvailableBadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/available", query)
}

// BadgeChallenges returns completed badge challenges.
func (c *Client) BadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/completed", query)
}

// NonCompletedBadgeChallenges returns joined but unfinished badge challenges.
func (c *Client) NonCompletedBadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/non-completed", query)
}

// InProgressVirtualChallenges returns expedition-style virtual challenges.
func (c *Client) InProgressVirtualChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/badgechallenge-service/virtualChallenge/inProgress", query)
}

// Workout endpoints.

// Workouts returns one page of the workout library.
func (c *Client) Workouts(ctx context.Context, start, limit int) (json.RawMessage, error) {
	query := url.Values{
		"start": {strconv.Itoa(start)},
		"limit": {strconv.Itoa(limit)},
	}
	return c.getJSON(ctx, "/workout-service/workouts", query)
}

// Workout returns a workout by numeric ID.
func (c *Client) Workout(ctx context.Context, workoutID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/workout-service/workout/"+workoutID, nil)
}

// AdaptiveWorkout returns an adaptive coaching workout by UUID.
func (c *Client) AdaptiveWorkout(ctx context.Context, workoutUUID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/workout-service/fbt-adaptive/"+workoutUUID, nil)
}

// DownloadWorkout returns the FIT file bytes for a workout.
func (c *Client) DownloadWorkout(ctx context.Context, workoutID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/workout-service/workout/FIT/"+workoutID, nil, nil)
}

// UploadWorkout creates a workout from a full workout document.
func (c *Client) UploadWorkout(ctx context.Context, workout map[string]any) (json.RawMessage, error) {
	return c.postJSON(ctx, "/workout-service/workout", workout)
}

// ScheduleWorkout places a workout on the training calendar.
func (c *Client) ScheduleWorkout(ctx context.Context, workoutID, date string) (json.RawMessage, error) {
	return c.postJSON(ctx, "/workout-service/schedule/"+workoutID, map[string]string{"date": date})
}

// GraphQL runs a raw query against the Connect GraphQL gateway. Workout
// schedules and training plans are only exposed there.
func (c *Client) GraphQL(ctx context.Context, query string) (json.RawMessage, error) {
	return c.postJSON(ctx, "/graphql-gateway/graphql", map[string]string{"query": query})
}

// Device endpoints.

// Devices returns every registered device.
func (c *Client) Devices(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceregistration/devices", nil)
}

// DeviceLastUsed returns the most recently synced device.
func (c *Client) DeviceLastUsed(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceservice/mylastused", nil)
}

// DeviceSettings returns the settings document for a device.
func (c *Client) DeviceSettings(ctx context.Context, deviceID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/device-service/deviceservice/device-info/settings/"+deviceID, nil)
}

// DeviceAlarms collects the configured alarms from every registered
// device's settings document.
func (c *Client) DeviceAlarms(ctx context.Context) (json.RawMessage, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	alarms := []json.RawMessage{}
	for _, device := range gjson.ParseBytes(devices).Array() {
		deviceID := device.Get("deviceId")
		if !deviceID.Exists() {
			continue
		}
		settings, err := c.DeviceSettings(ctx, deviceID.String())
		if err != nil {
			return nil, err
		}
		for _, alarm := range gjson.GetBytes(settings, "alarms").Array() {
			alarms = append(alarms, json.RawMessage(alarm.Raw))
		}
	}
	return json.Marshal(alarms)
}

// PrimaryTrainingDevice returns the primary training device configuration.
func (c *Client) PrimaryTrainingDevice(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/web-gateway/device-info/primary-training-device", nil)
}

// DeviceSolarData returns solar charging data for a device and date.
func (c *Client) DeviceSolarData(ctx context.Context, deviceID, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/web-gateway/solar/"+deviceID+"/"+date+"/"+date, nil)
}

// Gear endpoints.

// Gear returns all gear registered under a user profile number.
func (c *Client) Gear(ctx context.Context, userProfileNumber int64) (json.RawMessage, error) {
	query := url.Values{"userProfilePk": {strconv.FormatInt(userProfileNumber, 10)}}
	return c.getJSON(ctx, "/gear-service/gear/filterGear", query)
}

// GearDefaults returns per-activity-type default gear assignments.
func (c *Client) GearDefaults(ctx context.Context, userProfileNumber int64) (json.RawMessage, error) {
	return c.getJSON(ctx,
		"/gear-service/gear/user/"+strconv.FormatInt(userProfileNumber, 10)+"/activityTypes", nil)
}

// GearStats returns usage statistics for one piece of gear.
func (c *Client) GearStats(ctx context.Context, gearUUID string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/gear-service/gear/stats/"+gearUUID, nil)
}

// LinkGear attaches gear to an activity.
func (c *Client) LinkGear(ctx context.Context, gearUUID, activityID string) (json.RawMessage, error) {
	return c.putJSON(ctx, "/gear-service/gear/link/"+gearUUID+"/activity/"+activityID, nil)
}

// UnlinkGear detaches gear from an activity.
func (c *Client) UnlinkGear(ctx context.Context, gearUUID, activityID string) (json.RawMessage, error) {
	return c.putJSON(ctx, "/gear-service/gear/unlink/"+gearUUID+"/activity/"+activityID, nil)
}

// Weight endpoints.

// WeighIns returns weigh-in summaries for a date range.
func (c *Client) WeighIns(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	query := url.Values{"includeAll": {"true"}}
	return c.getJSON(ctx, "/weight-service/weight/range/"+startDate+"/"+endDate, query)
}

// DailyWeighIns returns all weigh-ins for one day.
func (c *Client) DailyWeighIns(ctx context.Context, date string) (json.RawMessage, error) {
	query := url.Values{"includeAll": {"true"}}
	return c.getJSON(ctx, "/weight-service/weight/dayview/"+date, query)
}

// DeleteWeighIn removes a single weigh-in by date and version.
func (c *Client) DeleteWeighIn(ctx context.Context, date string, version int64) error {
	return c.delete(ctx,
		"/weight-service/weight/"+date+"/byversion/"+strconv.FormatInt(version, 10))
}

// AddWeighIn records a weigh-in. The payload mirrors the user-weight
// service contract; see the weight toolset for construction.
func (c *Client) AddWeighIn(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return c.postJSON(ctx, "/weight-service/user-weight", payload)
}

// Body data writes.

// AddBodyComposition records a full body composition entry.
func (c *Client) AddBodyComposition(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return c.postJSON(ctx, "/weight-service/user-weight", payload)
}

// SetBloodPressure records a blood pressure measurement.
func (c *Client) SetBloodPressure(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return c.postJSON(ctx, "/bloodpressure-service/bloodpressure", payload)
}

// AddHydration logs a hydration entry.
func (c *Client) AddHydration(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return c.putJSON(ctx, "/usersummary-service/usersummary/hydration/log", payload)
}

// Profile endpoints.

// SocialProfile returns the public social profile document.
func (c *Client) SocialProfile(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/userprofile-service/socialProfile", nil)
}

// UserSettings returns the account settings document.
func (c *Client) UserSettings(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/userprofile-service/userprofile/user-settings", nil)
}

// Women's health endpoints.

// PregnancySummary returns the pregnancy tracking snapshot.
func (c *Client) PregnancySummary(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/periodichealth-service/menstrualcycle/pregnancysnapshot", nil)
}

// MenstrualDataForDate returns cycle tracking data for one day.
func (c *Client) MenstrualDataForDate(ctx context.Context, date string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/periodichealth-service/menstrualcycle/dayview/"+date, nil)
}

// MenstrualCalendar returns cycle tracking data for a date range.
func (c *Client) MenstrualCalendar(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return c.getJSON(ctx,
		"/periodichealth-service/menstrualcycle/calendar/"+startDate+"/"+endDate, nil)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package zapbridge connects the tracing pipeline to zap in both directions:
a layer that renders events through an existing *zap.Logger, and a
zapcore.Core that redispatches zap entries as events so legacy zap call
sites participate in tracing output.
*/
package zapbridge
